package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/go-drift/slideclock/cmd/slideclock/internal/config"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/errors"
	"github.com/go-drift/slideclock/pkg/metrics"
	"github.com/go-drift/slideclock/pkg/ticks"
	"github.com/go-drift/slideclock/pkg/watchface"
)

var (
	pngPath  string
	tickUnit string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the clock until interrupted",
	Long: `Show the clock on the configured surface. On the terminal surface press
q, Esc or Ctrl-C to quit. The raster surface draws off screen and writes the
last frame to --png on exit.`,
	Args: cobra.NoArgs,
	RunE: runClock,
}

func init() {
	runCmd.Flags().StringVar(&pngPath, "png", "slideclock.png", "raster surface: file the last frame is written to")
	runCmd.Flags().StringVar(&tickUnit, "tick", "minute", "tick unit (second, minute, hour)")
	rootCmd.AddCommand(runCmd)
}

func runClock(cmd *cobra.Command, _ []string) error {
	unit, err := ticks.ParseUnit(tickUnit)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	collector := metrics.NewCollector(registry)

	var (
		terminal *display.TerminalSurface
		raster   *display.RasterSurface
		surface  display.Surface
	)
	switch settings.Surface {
	case config.SurfaceTerminal:
		terminal, err = display.NewTerminalSurface(nil)
		surface = terminal
	case config.SurfaceRaster:
		raster, err = display.NewRasterSurface(settings.Width, settings.Height)
		surface = raster
	}
	if err != nil {
		return &errors.ClockError{Op: "run.surface", Kind: errors.KindDisplay, Err: err}
	}

	var server *metrics.Server
	if settings.MetricsAddr != "" {
		server = metrics.NewServer(settings.MetricsAddr, registry)
		server.Start()
	}

	app := watchface.New(surface, watchface.Config{
		Width:         settings.Width,
		Height:        settings.Height,
		LayerY:        settings.LayerY,
		LayerHeight:   settings.LayerHeight,
		FrameInterval: settings.FrameInterval,
		TickUnit:      unit,
		Observer:      collector,
		OnFrame:       collector.ObserveFrame,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Start(ctx)
	if terminal != nil {
		go func() {
			terminal.WaitQuit()
			stop()
		}()
	}
	<-ctx.Done()

	var result *multierror.Error
	if raster != nil {
		if err := writePNG(raster, pngPath); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := app.Stop(); err != nil {
		result = multierror.Append(result, err)
	}
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func writePNG(surface *display.RasterSurface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := surface.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
