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

package controller

import (
	"net/http"

	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/service"
	"github.com/Netcracker/qubership-code-review-service/view"
)

type ReviewController interface {
	CreateReview(w http.ResponseWriter, r *http.Request)
	GetReviews(w http.ResponseWriter, r *http.Request)
	GetReview(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
}

func NewReviewController(reviewService service.ReviewService) ReviewController {
	return &reviewControllerImpl{reviewService: reviewService}
}

type reviewControllerImpl struct {
	reviewService service.ReviewService
}

func (c reviewControllerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req view.CreateReviewReq
	if err := decodeBody(r, &req); err != nil {
		badRequestBody(w, err)
		return
	}
	ctx := secctx.MakeUserContext(r)
	review, err := c.reviewService.CreateReview(ctx, req)
	if err != nil {
		respondWithError(w, "Failed to create review", err)
		return
	}
	respondWithJson(w, http.StatusCreated, review)
}

func (c reviewControllerImpl) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	reviews, err := c.reviewService.GetReviews(ctx)
	if err != nil {
		respondWithError(w, "Failed to get reviews", err)
		return
	}
	respondWithJson(w, http.StatusOK, reviews)
}

func (c reviewControllerImpl) GetReview(w http.ResponseWriter, r *http.Request) {
	id := getStringParam(r, "id")
	ctx := secctx.MakeUserContext(r)
	review, err := c.reviewService.GetReview(ctx, id)
	if err != nil {
		respondWithError(w, "Failed to get review", err)
		return
	}
	respondWithJson(w, http.StatusOK, review)
}

func (c reviewControllerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := getStringParam(r, "id")
	ctx := secctx.MakeUserContext(r)
	if err := c.reviewService.DeleteReview(ctx, id); err != nil {
		respondWithError(w, "Failed to delete review", err)
		return
	}
	respondWithJson(w, http.StatusOK, view.MessageResponse{Message: "Review deleted successfully"})
}
