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

package security

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Netcracker/qubership-code-review-service/controller"
	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/Netcracker/qubership-code-review-service/secctx"
	"github.com/shaj13/go-guardian/v2/auth"
	log "github.com/sirupsen/logrus"
)

func Secure(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("Request failed with panic: %v", err)
				log.Tracef("Stacktrace: %v", string(debug.Stack()))
				debug.PrintStack()
				controller.RespondWithCustomError(w, &exception.CustomError{
					Status:  http.StatusInternalServerError,
					Message: http.StatusText(http.StatusInternalServerError),
					Debug:   fmt.Sprintf("%v", err),
				})
				return
			}
		}()
		if strategy == nil {
			controller.RespondWithCustomError(w, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
				Debug:   "security is not initialized",
			})
			return
		}
		_, info, err := strategy.AuthenticateRequest(r)
		if err != nil {
			log.Debugf("Authorization failed(401): %+v", err)
			respondUnauthorized(w, fmt.Sprintf("%v", err))
			return
		}

		user, err := userRepository.GetUserById(r.Context(), info.GetID())
		if err != nil {
			controller.RespondWithCustomError(w, &exception.CustomError{
				Status:  http.StatusInternalServerError,
				Code:    exception.StoreNotAvailable,
				Message: exception.StoreNotAvailableMsg,
				Debug:   err.Error(),
			})
			return
		}
		if user == nil {
			log.Debugf("Authorization failed(401): user %s from token does not exist", info.GetID())
			respondUnauthorized(w, "user from token does not exist")
			return
		}

		ext := auth.Extensions{}
		ext.Set(secctx.ProviderTokenExt, user.AccessToken)
		r = auth.RequestWithUser(auth.NewDefaultUser(user.Username, user.Id, []string{}, ext), r)
		next.ServeHTTP(w, r)
	}
}

func NoSecure(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("Request failed with panic: %v", err)
				log.Tracef("Stacktrace: %v", string(debug.Stack()))
				debug.PrintStack()
				controller.RespondWithCustomError(w, &exception.CustomError{
					Status:  http.StatusInternalServerError,
					Message: http.StatusText(http.StatusInternalServerError),
					Debug:   fmt.Sprintf("%v", err),
				})
				return
			}
		}()
		next.ServeHTTP(w, r)
	}
}

func respondUnauthorized(w http.ResponseWriter, detail string) {
	controller.RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusUnauthorized,
		Message: http.StatusText(http.StatusUnauthorized),
		Debug:   detail,
	})
}
