package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/errors"
	slidetest "github.com/go-drift/slideclock/pkg/testing"
	"github.com/go-drift/slideclock/pkg/watchface"
)

// maxSnapshotFrames bounds a simulated cycle that never settles.
const maxSnapshotFrames = 10000

var (
	snapshotAt    string
	snapshotOut   string
	snapshotEvery time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render one minute change to PNG frames",
	Long: `Simulate the minute change to --at with a virtual clock and write the
raster frames of the whole slide cycle to --out, one every --every.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		at, err := time.ParseInLocation("15:04", snapshotAt, time.Local)
		if err != nil {
			return &errors.ClockError{Op: "snapshot.at", Kind: errors.KindConfig, Err: err}
		}
		if snapshotEvery <= 0 {
			return &errors.ClockError{
				Op:   "snapshot.every",
				Kind: errors.KindConfig,
				Err:  fmt.Errorf("interval must be positive, got %s", snapshotEvery),
			}
		}
		n, err := snapshot(at, snapshotOut, snapshotEvery)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", n, snapshotOut)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotAt, "at", "10:05", "minute to change to, as HH:MM")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "frames", "output directory")
	snapshotCmd.Flags().DurationVar(&snapshotEvery, "every", 100*time.Millisecond, "virtual time between written frames")
	rootCmd.AddCommand(snapshotCmd)
}

// snapshot runs one slide cycle for the change to the minute of at and
// writes frames to dir. It returns the number of frames written.
func snapshot(at time.Time, dir string, every time.Duration) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	now := time.Now()
	tick := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, time.Local)
	clock := slidetest.NewFakeClockAt(tick.Add(-time.Minute))
	prev := animation.SetClock(clock)
	defer animation.SetClock(prev)

	surface, err := display.NewRasterSurface(settings.Width, settings.Height)
	if err != nil {
		return 0, &errors.ClockError{Op: "snapshot.surface", Kind: errors.KindDisplay, Err: err}
	}
	defer surface.Close()

	app := watchface.New(surface, watchface.Config{
		Width:         settings.Width,
		Height:        settings.Height,
		LayerY:        settings.LayerY,
		LayerHeight:   settings.LayerHeight,
		FrameInterval: settings.FrameInterval,
	})
	app.Load()
	app.StepFrame()

	written := 0
	write := func() error {
		path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", written))
		if err := writePNG(surface, path); err != nil {
			return err
		}
		written++
		return nil
	}
	if err := write(); err != nil {
		return written, err
	}

	clock.Set(tick)
	if err := app.Tick(tick); err != nil {
		return written, err
	}

	var sinceWrite time.Duration
	for i := 0; i < maxSnapshotFrames && app.Machine().Busy(); i++ {
		clock.Advance(settings.FrameInterval)
		app.StepFrame()
		sinceWrite += settings.FrameInterval
		if sinceWrite >= every {
			sinceWrite = 0
			if err := write(); err != nil {
				return written, err
			}
		}
	}
	if err := write(); err != nil {
		return written, err
	}

	log.WithFields(logrus.Fields{
		"frames": written,
		"stage":  app.Machine().Stage(),
		"text":   app.Layer().Text(),
	}).Debug("snapshot complete")
	return written, nil
}
