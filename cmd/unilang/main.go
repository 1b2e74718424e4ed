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

// Command unilang is the CLI surface of spec §6/§7: it reads a script
// from a file, "-" for stdin, or -e strings, evaluates it in a fresh
// interpreter session, and, when the ECHO environment variable is set,
// prints the value of every top-level form; otherwise it prints nothing
// on success.
package main

import (
	"os"

	"unilang.dev/go/cmd/unilang/cli"
)

func main() {
	os.Exit(cli.Main())
}
