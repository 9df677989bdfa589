// Copyright (c) 2017 OysterPack, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the broker configuration from a YAML file, applying defaults for unset settings.
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// defaults
const (
	DEFAULT_MAX_QUEUE_LENGTH   = 1000
	DEFAULT_CHECK_INTERVAL     = 60
	DEFAULT_EXPIRATION_TIMEOUT = 300
	DEFAULT_DELIVERY_TIMEOUT   = 5
	DEFAULT_HTTP_PORT          = 9080
	DEFAULT_DATA_DIR           = "data"
	DEFAULT_LOG_LEVEL          = "info"
)

// Config holds the broker settings.
//
// AdministrativeToken is the derived token that gates all administrative actions -
// operators mint it out-of-band via the gentoken command.
// CryptographicKey is the process-wide secret that destination tokens are derived from -
// changing it invalidates every token issued at destination creation time.
type Config struct {
	MaxQueueLength           int    `yaml:"maxQueueLength"`
	CheckInterval            int    `yaml:"checkInterval"`
	DefaultExpirationTimeout int64  `yaml:"defaultExpirationTimeout"`
	DeliveryTimeout          int    `yaml:"deliveryTimeout"`
	AdministrativeToken      string `yaml:"administrativeToken"`
	CryptographicKey         string `yaml:"cryptographicKey"`
	HTTPPort                 int    `yaml:"httpPort"`
	DataDir                  string `yaml:"dataDir"`
	LogLevel                 string `yaml:"logLevel"`
}

// Default returns a Config populated with the default settings
func Default() *Config {
	return &Config{
		MaxQueueLength:           DEFAULT_MAX_QUEUE_LENGTH,
		CheckInterval:            DEFAULT_CHECK_INTERVAL,
		DefaultExpirationTimeout: DEFAULT_EXPIRATION_TIMEOUT,
		DeliveryTimeout:          DEFAULT_DELIVERY_TIMEOUT,
		HTTPPort:                 DEFAULT_HTTP_PORT,
		DataDir:                  DEFAULT_DATA_DIR,
		LogLevel:                 DEFAULT_LOG_LEVEL,
	}
}

// Load reads the YAML config file at the given path.
// Settings not present in the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that required settings are present and sane
func (a *Config) Validate() error {
	if a.MaxQueueLength <= 0 {
		return ErrMaxQueueLengthMustBePositive
	}
	if a.CheckInterval <= 0 {
		return ErrCheckIntervalMustBePositive
	}
	if a.DefaultExpirationTimeout <= 0 {
		return ErrDefaultExpirationMustBePositive
	}
	if strings.TrimSpace(a.CryptographicKey) == "" {
		return ErrCryptographicKeyMustNotBeBlank
	}
	if strings.TrimSpace(a.AdministrativeToken) == "" {
		return ErrAdministrativeTokenMustNotBeBlank
	}
	return nil
}

// CheckIntervalDuration returns the reaper sweep interval
func (a *Config) CheckIntervalDuration() time.Duration {
	return time.Duration(a.CheckInterval) * time.Second
}

// DeliveryTimeoutDuration returns the per-call timeout for topic push deliveries
func (a *Config) DeliveryTimeoutDuration() time.Duration {
	return time.Duration(a.DeliveryTimeout) * time.Second
}
