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

// Package serializer encodes and decodes scanwatch data in JSON, YAML and
// table form.
//
// Writers render cycle summaries, snapshots and retention results for the
// CLI. Table output flattens values into dotted keys that follow the JSON
// field names:
//
//	w := serializer.NewStdoutWriter(serializer.FormatTable)
//	defer w.Close()
//	if err := w.Serialize(ctx, summary); err != nil {
//		return err
//	}
//
// Readers decode configuration files, with the format taken from the file
// extension:
//
//	cfg, err := serializer.FromFile[config.Config]("scanwatch.yaml")
//
// RespondJSON is the JSON response helper used by the HTTP server.
package serializer
