// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOlricConfig_LocalPeers(t *testing.T) {
	_, err := getConfig(OlricConfig{DiscoveryMode: "local", Peers: []string{"no-port"}})
	assert.Error(t, err)

	_, err = getConfig(OlricConfig{DiscoveryMode: "local", Peers: []string{"127.0.0.1:abc"}})
	assert.Error(t, err)

	cfg, err := getConfig(OlricConfig{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Peers)
	assert.Equal(t, olricBindAddr, cfg.BindAddr)
}

func TestOlricConfig_CloudModeNeedsNamespace(t *testing.T) {
	_, err := getConfig(OlricConfig{DiscoveryMode: "lan"})
	assert.Error(t, err)

	cfg, err := getConfig(OlricConfig{DiscoveryMode: "lan", Namespace: "review", ReplicaCount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ReplicaCount)
	assert.Equal(t, uint64(12), cfg.PartitionCount)
}
