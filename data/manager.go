// Copyright 2023-2024
// SPDX-License-Identifier: Apache-2.0
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

package data

import (
	"sync"
)

// Manager ties the price provider to the dataset cache
type Manager struct {
	provider Provider
	cache    *DatasetCache
}

var (
	managerOnce     sync.Once
	managerInstance *Manager
)

func GetManagerInstance() *Manager {
	managerOnce.Do(func() {
		managerInstance = &Manager{
			provider: NewYahoo(),
			cache:    NewDatasetCache(),
		}
	})
	return managerInstance
}

// NewManager creates a manager with an explicit provider; used by tests and
// anywhere the default Yahoo provider is not wanted
func NewManager(provider Provider) *Manager {
	return &Manager{
		provider: provider,
		cache:    NewDatasetCache(),
	}
}
