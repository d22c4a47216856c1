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
	"context"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-code-review-service/view"
	log "github.com/sirupsen/logrus"
)

// ReadinessCheck returns an error while a dependency is not able to serve requests.
type ReadinessCheck func(ctx context.Context) error

type HealthController interface {
	GetHealth(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
}

func NewHealthController(checks ...ReadinessCheck) HealthController {
	return &healthControllerImpl{checks: checks}
}

type healthControllerImpl struct {
	checks []ReadinessCheck
}

func (h healthControllerImpl) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, view.HealthStatus{Status: "ok", Message: "Server is running"})
}

func (h healthControllerImpl) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h healthControllerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	for _, check := range h.checks {
		if err := check(ctx); err != nil {
			log.Warnf("Readiness check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
