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

type ScanController interface {
	ScanRepository(w http.ResponseWriter, r *http.Request)
}

func NewScanController(scanService service.ScanService) ScanController {
	return &scanControllerImpl{scanService: scanService}
}

type scanControllerImpl struct {
	scanService service.ScanService
}

func (s scanControllerImpl) ScanRepository(w http.ResponseWriter, r *http.Request) {
	var req view.ScanRepositoryReq
	if err := decodeBody(r, &req); err != nil {
		badRequestBody(w, err)
		return
	}
	ctx := secctx.MakeUserContext(r)
	report, err := s.scanService.ScanRepository(ctx, req)
	if err != nil {
		respondWithError(w, "Failed to scan repository", err)
		return
	}
	respondWithJson(w, http.StatusOK, report)
}
