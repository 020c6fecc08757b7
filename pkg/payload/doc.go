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

// Package payload defines the JSON documents exchanged between collectors,
// the cycle runner and the snapshot store.
//
// Collectors build typed values (Scope, Analysis, Vulnerability) which are
// converted to a Document before they are persisted. Readers of stored data
// work on Document through tolerant accessors so that payloads written by
// older releases, degraded placeholders and hand-edited rows never fail to
// load.
package payload
