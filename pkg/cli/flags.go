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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/scanwatch/pkg/collector"
	"github.com/NVIDIA/scanwatch/pkg/config"
	"github.com/NVIDIA/scanwatch/pkg/cycle"
	"github.com/NVIDIA/scanwatch/pkg/serializer"
	"github.com/NVIDIA/scanwatch/pkg/snapshot"
)

// Flag constructors return fresh values so commands never share parse state.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported: %v)", serializer.SupportedFormats()),
		Value:   string(serializer.FormatYAML),
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML or JSON config file; environment variables override it",
		Sources: cli.EnvVars("SCANWATCH_CONFIG"),
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: fmt.Sprintf("Snapshot database path (default: %s)", config.DefaultDBPath),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file (overrides KUBECONFIG env var)",
	}
}

// storeFlags are accepted by every command that reads the snapshot store.
func storeFlags() []cli.Flag {
	return []cli.Flag{configFlag(), dbFlag()}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", outFormat)
	}
	return outFormat, nil
}

// writeOutput serializes v in the requested format to --output or stdout.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if cerr := w.Close(); cerr != nil {
			slog.Warn("failed to close output", "error", cerr)
		}
	}()

	return w.Serialize(ctx, v)
}

// loadConfig layers the config file, the environment and explicitly set
// flags, in that order, and validates the result.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if cmd.IsSet("db") {
		cfg.DBPath = cmd.String("db")
	}
	if cmd.IsSet("kubeconfig") {
		cfg.Kubeconfig = cmd.String("kubeconfig")
	}
	if cmd.IsSet("interval") {
		cfg.IntervalSeconds = cmd.Int("interval")
	}
	if cmd.IsSet("max-cycles") {
		cfg.MaxCycles = ptr.To(cmd.Int("max-cycles"))
	}
	if cmd.IsSet("listen") {
		cfg.ListenAddress = cmd.String("listen")
	}
	if cmd.IsSet("enable-security-sweep") {
		cfg.EnableSecuritySweep = cmd.Bool("enable-security-sweep")
	}
	if cmd.IsSet("security-max-targets") {
		cfg.SecurityMaxTargets = cmd.Int("security-max-targets")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (*snapshot.Store, error) {
	path, err := cfg.ResolvedDBPath()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(ctx, path)
}

func closeStore(store *snapshot.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("failed to close snapshot store", "error", err, "db_path", store.Path())
	}
}

// newRunner wires host, systemd and Kubernetes collectors into a cycle
// runner writing to store.
func newRunner(cfg config.Config, store *snapshot.Store) (*cycle.Runner, error) {
	factory := collector.NewDefaultFactory(
		collector.WithKubeconfig(cfg.Kubeconfig),
	)

	collab, err := collector.NewCollaborators(factory)
	if err != nil {
		return nil, err
	}

	return cycle.NewRunner(store, collab,
		cycle.WithSecuritySweep(cfg.EnableSecuritySweep, cfg.SecurityMaxTargets),
		cycle.WithPayloadLogging(cfg.LogPayloads, cfg.LogPayloadMaxChars),
	), nil
}
