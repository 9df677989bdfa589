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

// msgq is a lightweight message queue / pub-sub broker.
//
//	msgq serve    - run the broker
//	msgq gentoken - derive a security token for a pass phrase
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/oysterpack/msgq.go/pkg/logging"
	"github.com/oysterpack/msgq.go/pkg/msgq/admin"
	"github.com/oysterpack/msgq.go/pkg/msgq/catalog"
	"github.com/oysterpack/msgq.go/pkg/msgq/config"
	"github.com/oysterpack/msgq.go/pkg/msgq/engine"
	"github.com/oysterpack/msgq.go/pkg/msgq/rest"
	"github.com/oysterpack/msgq.go/pkg/msgq/security"
	"github.com/oysterpack/msgq.go/pkg/msgq/store"
	"github.com/oysterpack/msgq.go/pkg/msgq/topic"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "msgq",
	Short:        "lightweight message queue / pub-sub broker",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the broker until a signal or an administrative shutdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.SetGlobalLevel(cfg.LogLevel); err != nil {
			return err
		}
		return serve(cfg)
	},
}

var gentokenCmd = &cobra.Command{
	Use:   "gentoken [pass phrase]",
	Short: "derive a security token for a pass phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens, err := security.NewTokenService(cfg.CryptographicKey)
		if err != nil {
			return err
		}
		fmt.Println(tokens.Derive(args[0]))
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func serve(cfg *config.Config) error {
	tokens, err := security.NewTokenService(cfg.CryptographicKey)
	if err != nil {
		return err
	}
	gate, err := security.NewAdminGate(tokens, cfg.AdministrativeToken)
	if err != nil {
		return err
	}

	catalogDB, err := store.CreateDatabase(filepath.Join(cfg.DataDir, "catalog.db"), catalog.DATABASE_NAME, true)
	if err != nil {
		return err
	}
	defer catalogDB.Close()
	cat := catalog.NewBoltCatalog(catalogDB)

	stores := store.NewRegistry(filepath.Join(cfg.DataDir, "queues"))
	defer stores.CloseAll()

	transport := topic.NewHTTPTransport(cfg.DeliveryTimeoutDuration())
	eng := engine.New(cat, tokens, stores, transport, cfg)
	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()

	// the admin shutdown action and OS signals converge on the same path
	shutdown := make(chan struct{})
	var once sync.Once
	adminServer := admin.New(gate, tokens, cat, stores, eng, func() {
		once.Do(func() { close(shutdown) })
	})

	server := rest.New(eng, adminServer, cfg.HTTPPort)
	server.Start()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case <-signals:
	case <-shutdown:
	}
	return server.Stop()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, gentokenCmd)
}
