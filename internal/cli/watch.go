package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	perrors "github.com/matzehuels/pokeviz/pkg/errors"
	"github.com/matzehuels/pokeviz/pkg/pipeline"
)

const defaultDebounce = 200 * time.Millisecond

// watchRender renders once, then again after every burst of changes to the
// watched files. Render errors are reported and the watch continues.
// It returns when ctx is cancelled.
// resolve returns the options for the current config and is called again
// after every config reload.
func (c *CLI) watchRender(ctx context.Context, resolve func() pipeline.Options, flags renderFlags) error {
	targets := watchTargets(resolve().Dataset, c.config.path)
	if len(targets) == 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "--watch needs a dataset file or a config file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so watch the parent directories
	// and filter by name.
	dirs := map[string]bool{}
	for file := range targets {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	render := func(opts pipeline.Options) {
		if _, err := c.runRender(ctx, opts, flags); err != nil && ctx.Err() == nil {
			printError("%s", perrors.UserMessage(err))
		}
	}
	render(resolve())
	printInfo("Watching %d file(s) for changes (Ctrl+C to stop)", len(targets))

	return watchLoop(ctx, watcher, targets, flags.debounce, func(changed string) {
		opts, err := c.handleChange(changed, resolve)
		if err != nil {
			printError("%s", perrors.UserMessage(err))
			return
		}
		printNewline()
		printInfo("%s changed", changed)
		render(opts)
	})
}

// handleChange reloads the config when changed is the config file and
// returns the options for the next render.
func (c *CLI) handleChange(changed string, resolve func() pipeline.Options) (pipeline.Options, error) {
	if c.config.path != "" && sameFile(changed, c.config.path) {
		if err := c.reloadConfig(); err != nil {
			return pipeline.Options{}, err
		}
	}
	return resolve(), nil
}

func sameFile(a, b string) bool {
	if abs, err := filepath.Abs(a); err == nil {
		a = abs
	}
	if abs, err := filepath.Abs(b); err == nil {
		b = abs
	}
	return a == b
}

// reloadConfig re-reads the config file used at startup.
func (c *CLI) reloadConfig() error {
	cfg, err := loadConfig(c.config.path, true, c.Logger)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// watchTargets returns the absolute paths of the files to watch.
func watchTargets(files ...string) map[string]bool {
	targets := map[string]bool{}
	for _, f := range files {
		if f == "" {
			continue
		}
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		targets[f] = true
	}
	return targets
}

// watchLoop calls onChange once per burst of events on targets, after the
// debounce period has passed without further events.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]bool, debounce time.Duration, onChange func(string)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, _ := filepath.Abs(event.Name)
			if !targets[name] {
				continue
			}
			pending = name
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch error: %v", err)
		}
	}
}
