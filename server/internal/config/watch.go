package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is written. It runs until ctx is cancelled.
//
// If a reload fails (e.g. invalid YAML) the error is logged and onChange is
// not called.
func Watch(ctx context.Context, path string, log zerolog.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("config: watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so Create counts as a write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("config: reload failed, keeping previous config")
				continue
			}

			log.Info().Str("path", path).Msg("config: reloaded")
			onChange(cfg)

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("config: watcher error")
		}
	}
}

// RestartRequired lists the settings that differ between old and new but
// cannot be applied to a running server.
func RestartRequired(old, updated *Config) []string {
	var out []string
	if old.Server != updated.Server {
		out = append(out, "server")
	}
	if old.Dataset != updated.Dataset {
		out = append(out, "dataset")
	}
	if old.Storage != updated.Storage {
		out = append(out, "storage")
	}
	return out
}
