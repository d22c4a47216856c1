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
	"testing"

	"github.com/Netcracker/qubership-code-review-service/entity"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/repository"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/Netcracker/qubership-code-review-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxFor(userId string) context.Context {
	return secctx.WithUser(context.Background(), userId, userId, "")
}

func TestCreateReview_Persists(t *testing.T) {
	repo := repository.NewMemoryReviewRepository()
	svc := NewReviewService(repo, &fakeAnalyzer{scores: map[string]int{"let a = 1": 64}})

	review, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "let a = 1", Language: "javascript"})
	require.NoError(t, err)
	assert.NotEmpty(t, review.Id)
	assert.Equal(t, "alice", review.UserId)
	assert.Equal(t, 64, review.Score)
	assert.Equal(t, "let a = 1", review.Code)
	assert.Equal(t, "fake-model", review.AIModel)
	assert.Equal(t, entity.CurrentPromptVersion, review.PromptVersion)
	assert.False(t, review.CreatedAt.IsZero())

	stored, err := svc.GetReview(ctxFor("alice"), review.Id)
	require.NoError(t, err)
	assert.Equal(t, review.Summary, stored.Summary)
}

func TestCreateReview_MissingFields(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	svc := NewReviewService(repository.NewMemoryReviewRepository(), analyzer)

	for _, req := range []view.CreateReviewReq{{Code: "x"}, {Language: "go"}, {Code: "  ", Language: "go"}} {
		_, err := svc.CreateReview(ctxFor("alice"), req)
		assert.True(t, exception.HasStatus(err, http.StatusBadRequest), req)
	}
	assert.Empty(t, analyzer.calls)
}

func TestCreateReview_AnalyzerFailureStoresNothing(t *testing.T) {
	repo := repository.NewMemoryReviewRepository()
	svc := NewReviewService(repo, &fakeAnalyzer{failOn: map[string]bool{"x": true}})

	_, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	require.Error(t, err)

	list, err := svc.GetReviews(ctxFor("alice"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateReview_NotConfigured(t *testing.T) {
	notConfigured := exception.NotConfigured(exception.AIServiceNotConfigured, exception.AIServiceNotConfiguredMsg, nil)
	svc := NewReviewService(repository.NewMemoryReviewRepository(), &fakeAnalyzer{unavailable: notConfigured})

	_, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	assert.True(t, exception.HasStatus(err, http.StatusServiceUnavailable))
}

func TestReviews_OwnershipIsolation(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryReviewRepository(), &fakeAnalyzer{})
	review, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	require.NoError(t, err)

	_, err = svc.GetReview(ctxFor("bob"), review.Id)
	assert.True(t, exception.HasStatus(err, http.StatusNotFound))

	err = svc.DeleteReview(ctxFor("bob"), review.Id)
	assert.True(t, exception.HasStatus(err, http.StatusNotFound))

	bobs, err := svc.GetReviews(ctxFor("bob"))
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = svc.GetReview(ctxFor("alice"), review.Id)
	assert.NoError(t, err)
}

func TestGetReview_Idempotent(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryReviewRepository(), &fakeAnalyzer{})
	review, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	require.NoError(t, err)

	first, err := svc.GetReview(ctxFor("alice"), review.Id)
	require.NoError(t, err)
	second, err := svc.GetReview(ctxFor("alice"), review.Id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDeleteReview(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryReviewRepository(), &fakeAnalyzer{})
	review, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctxFor("alice"), review.Id))
	err = svc.DeleteReview(ctxFor("alice"), review.Id)
	assert.True(t, exception.HasStatus(err, http.StatusNotFound))
	_, err = svc.GetReview(ctxFor("alice"), review.Id)
	assert.True(t, exception.HasStatus(err, http.StatusNotFound))
}

func TestGetReviews_NoSourceText(t *testing.T) {
	svc := NewReviewService(repository.NewMemoryReviewRepository(), &fakeAnalyzer{})
	_, err := svc.CreateReview(ctxFor("alice"), view.CreateReviewReq{Code: "x", Language: "go"})
	require.NoError(t, err)

	list, err := svc.GetReviews(ctxFor("alice"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Code)
	assert.NotNil(t, list[0].Issues)
	assert.NotNil(t, list[0].Suggestions)
}
