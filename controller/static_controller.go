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
	"os"
	"path"
	"path/filepath"
	"strings"
)

type StaticController interface {
	ServeDashboard(w http.ResponseWriter, r *http.Request)
}

// NewStaticController serves the built dashboard from dir, falling back to index.html for client side routes.
func NewStaticController(dir string) StaticController {
	return &staticControllerImpl{dir: dir, fileServer: http.FileServer(http.Dir(dir))}
}

type staticControllerImpl struct {
	dir        string
	fileServer http.Handler
}

func (s *staticControllerImpl) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	cleaned := path.Clean("/" + r.URL.Path)
	info, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(cleaned)))
	if err == nil && !info.IsDir() {
		s.fileServer.ServeHTTP(w, r)
		return
	}
	index, err := os.ReadFile(filepath.Join(s.dir, "index.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	w.Write(index)
}
