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

// Package msgq defines the broker's core domain model :
//
//   - Destination : a named queue or topic registered in the catalog
//   - Message : a published message at rest in a queue or in transit to topic subscribers
//   - Receipt : the structured acknowledgment returned by a publish operation
//   - Envelope : the JSON response envelope shared by all request handlers
//
// Queues are point-to-point - one message is delivered to exactly one successful pickup.
// Topics are publish/subscribe - each message is pushed to every registered subscriber independently.
package msgq
