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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOAuthStateStore_ConsumeOnce(t *testing.T) {
	store := NewLocalOAuthStateStore()
	require.NoError(t, store.Save("abc", time.Minute))

	ok, err := store.Consume("abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume("abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalOAuthStateStore_UnknownAndEmpty(t *testing.T) {
	store := NewLocalOAuthStateStore()
	require.NoError(t, store.Save("abc", time.Minute))

	ok, err := store.Consume("other")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalOAuthStateStore_Expired(t *testing.T) {
	store := NewLocalOAuthStateStore()
	require.NoError(t, store.Save("abc", 10*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	ok, err := store.Consume("abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalOAuthStateStore_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	store := NewLocalOAuthStateStore()
	require.NoError(t, store.Save("abc", time.Minute))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Consume("abc")
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}
