// Copyright 2026 The Unilang Authors
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

package eval

import (
	"os"
	"strings"
)

// DefaultSearchPath is consulted when UNILANG_PATH is unset or empty.
var DefaultSearchPath = []string{"./unilang_modules"}

// SearchPath parses UNILANG_PATH the way cue/load parses a registry
// template list: entries separated by the platform's path-list
// separator, each either a plain directory or a template containing a
// "%s" placeholder expanded against a module name at resolution time.
func SearchPath() []string {
	v, ok := os.LookupEnv("UNILANG_PATH")
	if !ok || v == "" {
		return append([]string(nil), DefaultSearchPath...)
	}
	var out []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSearchPath...)
	}
	return out
}

// Resolve expands each SearchPath() entry against name (a module name
// occurring in a $provide!/$import! source-path position), substituting
// "%s" where a template contains it, else joining name as a file under
// the root, and returns the first candidate present on disk.
//
// It lives in package eval, not package boot, so resolveModuleEnv
// (ground.go), which importBangFn uses for a module-name source, can call
// it directly: boot already imports eval to build the ground
// environment, so the reverse import would cycle. boot.Resolve forwards
// to this.
func Resolve(name string) (string, bool) {
	for _, root := range SearchPath() {
		var candidate string
		if strings.Contains(root, "%s") {
			candidate = strings.ReplaceAll(root, "%s", name)
		} else {
			candidate = strings.TrimRight(root, "/") + "/" + name
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
