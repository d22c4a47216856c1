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

package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-code-review-service/client"
	"github.com/Netcracker/qubership-code-review-service/entity"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/repository"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ReviewService interface {
	CreateReview(ctx context.Context, req view.CreateReviewReq) (*view.Review, error)
	GetReviews(ctx context.Context) ([]view.Review, error)
	GetReview(ctx context.Context, id string) (*view.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

func NewReviewService(reviewRepository repository.ReviewRepository, analyzer client.CodeAnalyzer) ReviewService {
	return &reviewServiceImpl{reviewRepository: reviewRepository, analyzer: analyzer}
}

type reviewServiceImpl struct {
	reviewRepository repository.ReviewRepository
	analyzer         client.CodeAnalyzer
}

func (r reviewServiceImpl) CreateReview(ctx context.Context, req view.CreateReviewReq) (*view.Review, error) {
	var missing []string
	if strings.TrimSpace(req.Code) == "" {
		missing = append(missing, "code")
	}
	if strings.TrimSpace(req.Language) == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": strings.Join(missing, ", ")},
		}
	}
	if err := r.analyzer.CheckAvailable(); err != nil {
		return nil, err
	}

	userId := secctx.GetUserId(ctx)
	analysis, err := r.analyzer.AnalyzeCode(ctx, req.Code, req.Language)
	if err != nil {
		return nil, err
	}

	ent := entity.MakeReviewEntity(uuid.New().String(), userId, req.Language, req.Code, *analysis, time.Now())
	if err := r.reviewRepository.SaveReview(ctx, &ent); err != nil {
		return nil, err
	}
	log.Debugf("Review %s created for user %s with score %d", ent.Id, userId, ent.Score)
	result := entity.MakeReviewView(ent)
	return &result, nil
}

func (r reviewServiceImpl) GetReviews(ctx context.Context) ([]view.Review, error) {
	ents, err := r.reviewRepository.GetReviews(ctx, secctx.GetUserId(ctx))
	if err != nil {
		return nil, err
	}
	result := make([]view.Review, 0, len(ents))
	for _, ent := range ents {
		result = append(result, entity.MakeReviewView(ent))
	}
	return result, nil
}

func (r reviewServiceImpl) GetReview(ctx context.Context, id string) (*view.Review, error) {
	ent, err := r.reviewRepository.GetReview(ctx, secctx.GetUserId(ctx), id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, reviewNotFound(id)
	}
	result := entity.MakeReviewView(*ent)
	return &result, nil
}

func (r reviewServiceImpl) DeleteReview(ctx context.Context, id string) error {
	deleted, err := r.reviewRepository.DeleteReview(ctx, secctx.GetUserId(ctx), id)
	if err != nil {
		return err
	}
	if !deleted {
		return reviewNotFound(id)
	}
	return nil
}

func reviewNotFound(id string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.ReviewNotFound,
		Message: exception.ReviewNotFoundMsg,
		Params:  map[string]interface{}{"id": id},
	}
}
