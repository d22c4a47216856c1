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
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Netcracker/qubership-code-review-service/exception"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var productionMode = true

// SetProductionMode controls whether debug details are written to error responses.
func SetProductionMode(enabled bool) {
	productionMode = enabled
}

func getStringParam(r *http.Request, p string) string {
	params := mux.Vars(r)
	return params[p]
}

func decodeBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	return json.Unmarshal(body, target)
}

func badRequestBody(w http.ResponseWriter, err error) {
	RespondWithCustomError(w, &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.BadRequestBody,
		Message: exception.BadRequestBodyMsg,
		Debug:   err.Error(),
	})
}

func respondWithError(w http.ResponseWriter, msg string, err error) {
	if customError, ok := exception.AsCustomError(err); ok {
		if customError.Status >= http.StatusInternalServerError {
			log.Errorf("%s: %s (%s)", msg, customError.Error(), customError.Debug)
		}
		RespondWithCustomError(w, customError)
		return
	}
	log.Errorf("%s: %s", msg, err.Error())
	customError := &exception.CustomError{
		Status:  http.StatusInternalServerError,
		Code:    exception.InternalServerError,
		Message: msg,
		Debug:   err.Error(),
	}
	if productionMode {
		customError.Message = http.StatusText(http.StatusInternalServerError)
	}
	RespondWithCustomError(w, customError)
}

func RespondWithCustomError(w http.ResponseWriter, err *exception.CustomError) {
	log.Debugf("Request failed. Code = %d. Message = %s. Params: %v. Debug: %s", err.Status, err.Message, err.Params, err.Debug)
	resp := exception.CustomError{
		Status:  err.Status,
		Code:    err.Code,
		Message: err.Error(),
		Params:  err.Params,
	}
	if !productionMode {
		resp.Debug = err.Debug
	}
	respondWithJson(w, err.Status, resp)
}

func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
