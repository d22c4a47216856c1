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
	"fmt"
	"sync"
	"time"

	"github.com/buraksezer/olric"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
)

// OAuthStateStore keeps issued OAuth state values until the callback consumes them.
type OAuthStateStore interface {
	Save(state string, ttl time.Duration) error
	// Consume reports whether the state was issued and not yet used, and invalidates it.
	Consume(state string) (bool, error)
}

const oauthStateDMap = "oauth-state"
const localStateCapacity = 10000

func NewLocalOAuthStateStore() OAuthStateStore {
	cache := libcache.LRU.New(localStateCapacity)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})
	return &localOAuthStateStoreImpl{cache: cache}
}

type localOAuthStateStoreImpl struct {
	mu    sync.Mutex
	cache libcache.Cache
}

func (l *localOAuthStateStoreImpl) Save(state string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.StoreWithTTL(state, true, ttl)
	return nil
}

func (l *localOAuthStateStoreImpl) Consume(state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache.Load(state)
	if ok {
		l.cache.Delete(state)
	}
	return ok, nil
}

func NewOlricOAuthStateStore(op OlricProvider) OAuthStateStore {
	return &olricOAuthStateStoreImpl{op: op}
}

type olricOAuthStateStoreImpl struct {
	op   OlricProvider
	mu   sync.Mutex
	dMap *olric.DMap
}

func (o *olricOAuthStateStoreImpl) getDMap() (*olric.DMap, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dMap != nil {
		return o.dMap, nil
	}
	dMap, err := o.op.Get().NewDMap(oauthStateDMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create DMap %s: %w", oauthStateDMap, err)
	}
	o.dMap = dMap
	return dMap, nil
}

func (o *olricOAuthStateStoreImpl) Save(state string, ttl time.Duration) error {
	dMap, err := o.getDMap()
	if err != nil {
		return err
	}
	return dMap.PutEx(state, true, ttl)
}

func (o *olricOAuthStateStoreImpl) Consume(state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	dMap, err := o.getDMap()
	if err != nil {
		return false, err
	}
	// GetPut marks the state as used in one step, so only one caller sees true.
	prev, err := dMap.GetPut(state, false)
	if err != nil {
		return false, err
	}
	if err = dMap.Delete(state); err != nil {
		log.Warnf("Failed to delete consumed OAuth state: %v", err)
	}
	issued, _ := prev.(bool)
	return issued, nil
}
