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

// ReviewRepository scopes every read and delete to the owning user.
type ReviewRepository interface {
	SaveReview(ctx context.Context, ent *entity.Review) error
	GetReviews(ctx context.Context, userId string) ([]entity.Review, error)
	GetReview(ctx context.Context, userId string, id string) (*entity.Review, error)
	DeleteReview(ctx context.Context, userId string, id string) (bool, error)
}

func NewReviewRepository(cp db.ConnectionProvider) ReviewRepository {
	return &reviewRepositoryImpl{cp: cp}
}

type reviewRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r reviewRepositoryImpl) SaveReview(ctx context.Context, ent *entity.Review) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, ent).Insert()
	return err
}

func (r reviewRepositoryImpl) GetReviews(ctx context.Context, userId string) ([]entity.Review, error) {
	ents := make([]entity.Review, 0)
	err := r.cp.GetConnection().ModelContext(ctx, &ents).
		ExcludeColumn("code").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return ents, nil
		}
		return nil, err
	}
	return ents, nil
}

func (r reviewRepositoryImpl) GetReview(ctx context.Context, userId string, id string) (*entity.Review, error) {
	var ent entity.Review
	err := r.cp.GetConnection().ModelContext(ctx, &ent).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ent, nil
}

func (r reviewRepositoryImpl) DeleteReview(ctx context.Context, userId string, id string) (bool, error) {
	res, err := r.cp.GetConnection().ModelContext(ctx, (*entity.Review)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		Delete()
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
