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
	"errors"

	"github.com/Netcracker/qubership-code-review-service/db"
	"github.com/Netcracker/qubership-code-review-service/entity"
	"github.com/go-pg/pg/v10"
)

type UserRepository interface {
	// UpsertUser inserts a user or, if the github id is already known, refreshes its access token.
	// The returned entity is the stored row.
	UpsertUser(ctx context.Context, ent entity.User) (*entity.User, error)
	GetUserById(ctx context.Context, id string) (*entity.User, error)
}

func NewUserRepository(cp db.ConnectionProvider) UserRepository {
	return &userRepositoryImpl{cp: cp}
}

type userRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (u userRepositoryImpl) UpsertUser(ctx context.Context, ent entity.User) (*entity.User, error) {
	_, err := u.cp.GetConnection().ModelContext(ctx, &ent).
		OnConflict("(github_id) DO UPDATE").
		Set("access_token = EXCLUDED.access_token").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Insert()
	if err != nil {
		return nil, err
	}
	return &ent, nil
}

func (u userRepositoryImpl) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	var ent entity.User
	err := u.cp.GetConnection().ModelContext(ctx, &ent).Where("id = ?", id).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ent, nil
}
