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

// Package systemd lists running systemd services for host discovery.
//
// The collector talks to systemd over D-Bus using
// github.com/coreos/go-systemd/v22/dbus and returns services whose
// sub-state is "running":
//
//	services, err := (&systemd.Collector{}).Collect(ctx)
//	if err != nil {
//		// systemd is optional; callers record a note and continue
//	}
//
// Hosts without systemd or without access to the system bus return an
// error that callers treat as a partial discovery.
package systemd
