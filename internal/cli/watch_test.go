package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pokeviz/pkg/pipeline"
)

func TestWatchTargets(t *testing.T) {
	targets := watchTargets("", "data.json", "/etc/pokeviz/config.toml")
	if len(targets) != 2 {
		t.Fatalf("targets = %v, want 2 entries", targets)
	}
	abs, _ := filepath.Abs("data.json")
	if !targets[abs] {
		t.Errorf("relative path not made absolute: %v", targets)
	}
	if !targets["/etc/pokeviz/config.toml"] {
		t.Errorf("absolute path missing: %v", targets)
	}
}

func TestWatchLoopDebounces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dex.json")
	other := filepath.Join(dir, "notes.txt")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, watcher, watchTargets(target), 100*time.Millisecond, func(name string) {
			calls.Add(1)
			changed <- name
		})
	}()

	// A burst of writes to the target plus noise on another file.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case name := <-changed:
		if name != target {
			t.Errorf("onChange(%q), want %q", name, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	// Nothing else should fire once the burst has settled.
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("onChange called %d times, want 1", n)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watchLoop returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("watchLoop did not stop on cancel")
	}
}

func TestWatchRenderNeedsTarget(t *testing.T) {
	c := newTestCLI(t, "")
	_, err := runCommand(t, c, "render", "--watch")
	if err == nil {
		t.Fatal("expected an error without a file to watch")
	}
}

// watchedRender mirrors the render command: flag values plus the current
// config, resolved on demand.
func watchedRender(t *testing.T, c *CLI, args ...string) func() pipeline.Options {
	t.Helper()
	cmd := &cobra.Command{Use: "render"}
	var opts pipeline.Options
	addLayoutFlags(cmd, &opts)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return func() pipeline.Options {
		o := opts
		c.config.apply(cmd, &o)
		return o
	}
}

func TestHandleChangeReloadsConfig(t *testing.T) {
	tests := []struct {
		name     string
		relative bool
	}{
		{"absolute config path", false},
		{"relative config path", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "pokeviz.toml")
			if err := os.WriteFile(path, []byte("size = 600\npadding = 4\n"), 0644); err != nil {
				t.Fatal(err)
			}
			configArg := path
			if tt.relative {
				t.Chdir(dir)
				configArg = "pokeviz.toml"
			}

			c := New(os.Stderr, LogInfo)
			cfg, err := loadConfig(configArg, true, quietLogger())
			if err != nil {
				t.Fatal(err)
			}
			c.config = cfg
			resolve := watchedRender(t, c, "--padding", "5")

			if got := resolve(); got.Size != 600 || got.Padding != 5 {
				t.Fatalf("initial options size=%g padding=%g, want 600 and 5", got.Size, got.Padding)
			}

			if err := os.WriteFile(path, []byte("size = 900\npadding = 9\n"), 0644); err != nil {
				t.Fatal(err)
			}
			// The watcher reports absolute names.
			got, err := c.handleChange(path, resolve)
			if err != nil {
				t.Fatalf("handleChange: %v", err)
			}
			if got.Size != 900 {
				t.Errorf("size after edit = %g, want 900", got.Size)
			}
			if got.Padding != 5 {
				t.Errorf("padding = %g, want the --padding flag value 5", got.Padding)
			}
		})
	}
}

func TestHandleChangeDatasetKeepsConfig(t *testing.T) {
	path := writeConfig(t, "size = 700\n")
	c := New(os.Stderr, LogInfo)
	cfg, err := loadConfig(path, true, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	c.config = cfg
	resolve := watchedRender(t, c)

	// Edit the file without it being the reported change.
	if err := os.WriteFile(path, []byte("size = 300\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := c.handleChange(filepath.Join(t.TempDir(), "dex.json"), resolve)
	if err != nil {
		t.Fatalf("handleChange: %v", err)
	}
	if got.Size != 700 {
		t.Errorf("size = %g, want 700 (config only reloads on its own change)", got.Size)
	}
}

func TestHandleChangeInvalidConfig(t *testing.T) {
	path := writeConfig(t, "size = 700\n")
	c := New(os.Stderr, LogInfo)
	cfg, err := loadConfig(path, true, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	c.config = cfg
	resolve := watchedRender(t, c)

	if err := os.WriteFile(path, []byte("size = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.handleChange(path, resolve); err == nil {
		t.Error("expected an error for a broken config")
	}
	if c.config.Size != 700 {
		t.Errorf("broken config replaced the previous one: size = %g", c.config.Size)
	}
}
