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

package api

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/scanwatch/pkg/server"
)

const (
	name           = "scanwatch-api"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/scanwatch/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve runs the read-only API on listen until ctx is cancelled.
// An empty listen uses the server's default address.
func Serve(ctx context.Context, listen string, store Reader) error {
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"listen", listen,
	)

	opts := []server.Option{
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(NewHandler(store).Routes()),
		server.WithReadinessCheck("snapshot_store", func(ctx context.Context) error {
			_, err := store.Counts(ctx)
			return err
		}),
	}
	if listen != "" {
		opts = append(opts, server.WithAddress(listen))
	}

	if err := server.New(opts...).Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
