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

package boot

import "unilang.dev/go/internal/core/eval"

// DefaultSearchPath is consulted when UNILANG_PATH is unset or empty.
var DefaultSearchPath = eval.DefaultSearchPath

// SearchPath parses UNILANG_PATH into the list of roots $import!/$provide!
// module-name resolution searches, in order. The actual implementation
// lives in package eval, alongside the module loader that uses it; this
// forwards so existing callers of boot.SearchPath keep compiling.
func SearchPath() []string {
	return eval.SearchPath()
}

// Resolve expands each SearchPath() entry against name and returns the
// first candidate file present on disk.
func Resolve(name string) (string, bool) {
	return eval.Resolve(name)
}
