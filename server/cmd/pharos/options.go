package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rexzheng324-c/pharos/pkg/dataset"
	"github.com/rexzheng324-c/pharos/server/internal/config"
	"github.com/rexzheng324-c/pharos/server/internal/loader"
	"github.com/rexzheng324-c/pharos/server/internal/storage"
)

const defaultConfigPath = "config.yaml"

// options are the flags shared by serve and inspect.
type options struct {
	configPath string
	manifest   string
	httpPort   int
	logLevel   string
}

func (o *options) bind(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", defaultConfigPath, "path to config file")
	flags.StringVar(&o.manifest, "manifest", "", "dataset manifest path or object key (overrides dataset.manifest)")
}

// loadConfig reads the config file and applies the flags the user set
// explicitly. A missing file is only an error when --config was given.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfg, err := config.Load(o.configPath)
	fromFile := err == nil
	if err != nil {
		if changed["config"] || !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		cfg = config.Default()
	}

	if changed["manifest"] {
		cfg.Dataset.Manifest = o.manifest
	}
	if changed["http-port"] {
		cfg.Server.HTTPPort = o.httpPort
	}
	if changed["log-level"] {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("config: %w", err)
	}
	return cfg, fromFile, nil
}

// loadDataset reads the manifest from the configured source. urls is reused
// when the source is the same backend that resolves item URLs.
func loadDataset(ctx context.Context, cfg *config.Config, urls storage.Backend) (*dataset.Dataset, error) {
	src := urls
	if src == nil || src.Name() != cfg.Dataset.Source {
		var err error
		src, err = storage.New(ctx, cfg.Dataset.Source, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("manifest source: %w", err)
		}
	}
	return loader.Load(ctx, src, cfg.Dataset.Manifest)
}
