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

package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Netcracker/qubership-code-review-service/entity"
)

// In-memory repositories are used when no database is configured. Data does not survive a restart.

func NewMemoryReviewRepository() ReviewRepository {
	return &memoryReviewRepository{reviews: make(map[string]entity.Review)}
}

type memoryReviewRepository struct {
	mutex   sync.RWMutex
	reviews map[string]entity.Review
}

func (m *memoryReviewRepository) SaveReview(_ context.Context, ent *entity.Review) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reviews[ent.Id] = copyReview(*ent)
	return nil
}

func (m *memoryReviewRepository) GetReviews(_ context.Context, userId string) ([]entity.Review, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	result := make([]entity.Review, 0)
	for _, r := range m.reviews {
		if r.UserId != userId {
			continue
		}
		r = copyReview(r)
		r.Code = ""
		result = append(result, r)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Id > result[j].Id
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memoryReviewRepository) GetReview(_ context.Context, userId string, id string) (*entity.Review, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, ok := m.reviews[id]
	if !ok || r.UserId != userId {
		return nil, nil
	}
	r = copyReview(r)
	return &r, nil
}

func (m *memoryReviewRepository) DeleteReview(_ context.Context, userId string, id string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	r, ok := m.reviews[id]
	if !ok || r.UserId != userId {
		return false, nil
	}
	delete(m.reviews, id)
	return true, nil
}

func copyReview(r entity.Review) entity.Review {
	if r.Issues != nil {
		r.Issues = append(r.Issues[:0:0], r.Issues...)
	}
	if r.Suggestions != nil {
		r.Suggestions = append(r.Suggestions[:0:0], r.Suggestions...)
	}
	return r
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:      make(map[string]entity.User),
		byGithubId: make(map[string]string),
	}
}

type memoryUserRepository struct {
	mutex      sync.RWMutex
	users      map[string]entity.User
	byGithubId map[string]string
}

func (m *memoryUserRepository) UpsertUser(_ context.Context, ent entity.User) (*entity.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if id, exists := m.byGithubId[ent.GithubId]; exists {
		stored := m.users[id]
		stored.AccessToken = ent.AccessToken
		stored.UpdatedAt = ent.UpdatedAt
		m.users[id] = stored
		return &stored, nil
	}
	m.users[ent.Id] = ent
	m.byGithubId[ent.GithubId] = ent.Id
	return &ent, nil
}

func (m *memoryUserRepository) GetUserById(_ context.Context, id string) (*entity.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
