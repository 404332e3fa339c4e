package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/slideclock/cmd/slideclock/internal/config"
	"github.com/go-drift/slideclock/pkg/animation"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "slideclock version "+Version) {
		t.Errorf("output = %q, want version line", out.String())
	}
}

func TestSnapshotWritesCycle(t *testing.T) {
	defaults := config.Defaults()
	settings = &defaults
	t.Cleanup(func() { settings = nil })

	dir := filepath.Join(t.TempDir(), "frames")
	at := time.Date(0, 1, 1, 10, 5, 0, 0, time.Local)
	before := animation.CurrentClock()

	n, err := snapshot(at, dir, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	// Five seconds of motion at one frame per half second, plus the
	// first and last frames.
	if n < 10 || n > 14 {
		t.Errorf("snapshot wrote %d frames, want about 12", n)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Errorf("%d files in %s, want %d", len(entries), dir, n)
	}
	if animation.CurrentClock() != before {
		t.Error("snapshot did not restore the animation clock")
	}
}
