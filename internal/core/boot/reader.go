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

import (
	"unilang.dev/go/internal/core/eval"
	"unilang.dev/go/term"
)

// ReadAll parses src into a sequence of top-level forms (spec §6 source
// surface). The actual reader lives in package eval, where importBangFn
// also needs it to parse a resolved module file's source text; this
// forwards so the CLI and interpreter package can keep calling boot.ReadAll.
func ReadAll(src string) ([]*term.Term, error) {
	return eval.ReadAll(src)
}
