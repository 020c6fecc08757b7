// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package file parses small line-oriented text files.
//
// Parser handles key-value files such as /etc/os-release and
// /proc/meminfo as well as plain line lists:
//
//	parser := file.NewParser(
//		file.WithKVDelimiter("="),
//		file.WithVTrimChars(`"'`),
//		file.WithSkipEmptyValues(true),
//	)
//	release, err := parser.GetMap("/etc/os-release")
//
// Files are read through an fs.FS rooted at "/" by default. WithFS swaps in
// another root, which tests use with fstest.MapFS.
package file
