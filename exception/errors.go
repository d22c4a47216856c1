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

package exception

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type CustomError struct {
	Status  int                    `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

func (c CustomError) Error() string {
	msg := c.Message
	// longest keys first, so $repository is not clobbered by $repo
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprintf("%v", c.Params[k]))
	}
	return msg
}

// AsCustomError unwraps err to a *CustomError if there is one in the chain.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	var cev CustomError
	if errors.As(err, &cev) {
		return &cev, true
	}
	return nil, false
}

// HasStatus reports whether err is a CustomError carrying the given http status.
func HasStatus(err error, status int) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Status == status
}

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const RequiredParamsMissing = "15"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const EntityNotFound = "100"
const EntityNotFoundMsg = "$entity with id $id is not found"

const ReviewNotFound = "101"
const ReviewNotFoundMsg = "Review not found"

const UserNotFound = "102"
const UserNotFoundMsg = "User not found"

const InvalidOwnerFormat = "300"
const InvalidOwnerFormatMsg = "Invalid owner format"

const InvalidRepoFormat = "301"
const InvalidRepoFormatMsg = "Invalid repository name format"

const NoProviderAccessToken = "400"
const NoProviderAccessTokenMsg = "GitHub access token not available"

const RepositoryNotFound = "401"
const RepositoryNotFoundMsg = "Repository not found or access denied"

const RepositoryForbidden = "402"
const RepositoryForbiddenMsg = "Access forbidden. Please check repository permissions."

const RepositoryFetchFailed = "403"
const RepositoryFetchFailedMsg = "Failed to fetch repository files"

const FileContentFetchFailed = "404"
const FileContentFetchFailedMsg = "Failed to fetch file content: $path"

const AIServiceNotConfigured = "500"
const AIServiceNotConfiguredMsg = "AI service is not configured. Please set $key in your environment."

const AIAnalysisFailed = "501"
const AIAnalysisFailedMsg = "Could not analyze code. Please check your connection or try again later."

const OAuthNotConfigured = "600"
const OAuthNotConfiguredMsg = "GitHub OAuth is not configured. Please set GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET in your environment."

const OAuthStateInvalid = "601"
const OAuthStateInvalidMsg = "OAuth state is missing or expired"

const OAuthExchangeFailed = "602"
const OAuthExchangeFailedMsg = "Failed to complete GitHub authentication"

const StoreNotAvailable = "700"
const StoreNotAvailableMsg = "Storage is not available"

const InternalServerError = "900"

// NotConfigured builds the 503 returned when a feature's external credential is absent.
func NotConfigured(code, message string, params map[string]interface{}) *CustomError {
	return &CustomError{
		Status:  http.StatusServiceUnavailable,
		Code:    code,
		Message: message,
		Params:  params,
	}
}
