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
	"path"
	"strings"
)

const DefaultLanguage = "javascript"

var languageByExtension = map[string]string{
	"js":    "javascript",
	"jsx":   "javascript",
	"ts":    "typescript",
	"tsx":   "typescript",
	"py":    "python",
	"java":  "java",
	"go":    "go",
	"rs":    "rust",
	"cpp":   "cpp",
	"c":     "c",
	"php":   "php",
	"rb":    "ruby",
	"swift": "swift",
	"kt":    "kotlin",
}

func fileExtension(filePath string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filePath), "."))
}

func IsSupportedFile(filePath string) bool {
	_, ok := languageByExtension[fileExtension(filePath)]
	return ok
}

// LanguageForFile maps a file path to the language tag sent to the analyzer.
func LanguageForFile(filePath string) string {
	if lang, ok := languageByExtension[fileExtension(filePath)]; ok {
		return lang
	}
	return DefaultLanguage
}
