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
	"fmt"
	"net/http"
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

const OAuthStateTTL = time.Minute * 10

// TokenIssuer signs the bearer token handed to the dashboard after login.
type TokenIssuer func(user view.User) (string, error)

type AuthService interface {
	IsConfigured() bool
	GetAuthUrl(ctx context.Context) (string, error)
	// HandleCallback completes the OAuth handshake and returns a bearer token for the upserted user.
	HandleCallback(ctx context.Context, code string, state string) (string, error)
	GetCurrentUser(ctx context.Context) (*view.User, error)
}

// NewAuthService accepts nil oauthClient when the GitHub OAuth app is not configured.
func NewAuthService(oauthClient client.GithubOAuthClient, stateStore client.OAuthStateStore, userRepository repository.UserRepository, issueToken TokenIssuer) AuthService {
	return &authServiceImpl{
		oauthClient:    oauthClient,
		stateStore:     stateStore,
		userRepository: userRepository,
		issueToken:     issueToken,
	}
}

type authServiceImpl struct {
	oauthClient    client.GithubOAuthClient
	stateStore     client.OAuthStateStore
	userRepository repository.UserRepository
	issueToken     TokenIssuer
}

func (a authServiceImpl) IsConfigured() bool {
	return a.oauthClient != nil
}

func oauthNotConfigured() error {
	return exception.NotConfigured(exception.OAuthNotConfigured, exception.OAuthNotConfiguredMsg, nil)
}

func (a authServiceImpl) GetAuthUrl(ctx context.Context) (string, error) {
	if !a.IsConfigured() {
		return "", oauthNotConfigured()
	}
	state := uuid.New().String()
	if err := a.stateStore.Save(state, OAuthStateTTL); err != nil {
		return "", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.StoreNotAvailable,
			Message: exception.StoreNotAvailableMsg,
			Debug:   err.Error(),
		}
	}
	return a.oauthClient.AuthCodeURL(state), nil
}

func (a authServiceImpl) HandleCallback(ctx context.Context, code string, state string) (string, error) {
	if !a.IsConfigured() {
		return "", oauthNotConfigured()
	}
	valid, err := a.stateStore.Consume(state)
	if err != nil {
		return "", fmt.Errorf("failed to check OAuth state: %w", err)
	}
	if !valid {
		return "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.OAuthStateInvalid,
			Message: exception.OAuthStateInvalidMsg,
		}
	}
	if code == "" {
		return "", &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "code"},
		}
	}

	accessToken, err := a.oauthClient.Exchange(ctx, code)
	if err != nil {
		return "", oauthExchangeFailed(err)
	}
	profile, err := a.oauthClient.GetProfile(ctx, accessToken)
	if err != nil {
		return "", oauthExchangeFailed(err)
	}

	now := time.Now()
	user, err := a.userRepository.UpsertUser(ctx, entity.User{
		Id:          uuid.New().String(),
		GithubId:    profile.Id,
		Username:    profile.Username,
		Email:       profile.Email,
		Avatar:      profile.Avatar,
		AccessToken: accessToken,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", err
	}
	log.Infof("User %s (github id %s) logged in", user.Username, user.GithubId)
	return a.issueToken(entity.MakeUserView(*user))
}

func oauthExchangeFailed(err error) error {
	return &exception.CustomError{
		Status:  http.StatusUnauthorized,
		Code:    exception.OAuthExchangeFailed,
		Message: exception.OAuthExchangeFailedMsg,
		Debug:   err.Error(),
	}
}

func (a authServiceImpl) GetCurrentUser(ctx context.Context) (*view.User, error) {
	userId := secctx.GetUserId(ctx)
	ent, err := a.userRepository.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.UserNotFound,
			Message: exception.UserNotFoundMsg,
			Params:  map[string]interface{}{"id": userId},
		}
	}
	user := entity.MakeUserView(*ent)
	return &user, nil
}
