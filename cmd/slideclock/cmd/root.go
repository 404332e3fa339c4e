// Package cmd implements the slideclock CLI commands.
//
// Settings come from, in increasing priority: built-in defaults, the
// slideclock.yaml file, SLIDECLOCK_* environment variables and flags.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-drift/slideclock/cmd/slideclock/internal/config"
	"github.com/go-drift/slideclock/pkg/logger"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var log = logger.New(logrus.StandardLogger(), "slideclock")

var (
	cfgFile   string
	configErr error
	settings  *config.Resolved
)

var rootCmd = &cobra.Command{
	Use:   "slideclock",
	Short: "A clock whose time slides out and back in every minute",
	Long: `slideclock draws the current time and, on every minute change, slides
the text off the left edge, swaps in the new time off the right edge and
slides it back to the centre.

Use "slideclock <command> --help" for more information about a command.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the CLI with os.Args.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("cannot run command")
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", fmt.Sprintf("configuration file (default ./%s)", config.FileName))
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("metrics-addr", "", "serve Prometheus metrics on HOST:PORT")
	flags.Int("width", 0, "display width in pixels")
	flags.Int("height", 0, "display height in pixels")
	flags.Int("fps", 0, "frames per second")
	flags.String("surface", "", "display surface (terminal, raster)")

	bindFlag(flags, "log.level", "log-level")
	bindFlag(flags, "log.file", "log-file")
	bindFlag(flags, "metrics.addr", "metrics-addr")
	bindFlag(flags, "display.width", "width")
	bindFlag(flags, "display.height", "height")
	bindFlag(flags, "display.fps", "fps")
	bindFlag(flags, "display.surface", "surface")
}

func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// initConfig loads the configuration file into viper's defaults so that
// environment variables and flags override it.
func initConfig() {
	var (
		file *config.Config
		err  error
	)
	if cfgFile != "" {
		file, err = config.LoadFile(cfgFile, false)
	} else {
		file, err = config.LoadOptional(".")
	}
	if err != nil {
		configErr = err
		return
	}
	resolved, err := config.Resolve(file)
	if err != nil {
		configErr = err
		return
	}

	viper.SetDefault("version", resolved.Version)
	viper.SetDefault("display.width", resolved.Width)
	viper.SetDefault("display.height", resolved.Height)
	viper.SetDefault("display.layer_y", resolved.LayerY)
	viper.SetDefault("display.layer_height", resolved.LayerHeight)
	viper.SetDefault("display.fps", int(time.Second/resolved.FrameInterval))
	viper.SetDefault("display.surface", resolved.Surface)
	viper.SetDefault("log.level", resolved.LogLevel)
	viper.SetDefault("log.file", resolved.LogFile)
	viper.SetDefault("metrics.addr", resolved.MetricsAddr)

	viper.SetEnvPrefix("slideclock")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadSettings validates the merged settings and sets up logging.
func loadSettings(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	layerY := viper.GetInt("display.layer_y")
	resolved, err := config.Resolve(&config.Config{
		Version: viper.GetString("version"),
		Display: config.DisplayConfig{
			Width:       viper.GetInt("display.width"),
			Height:      viper.GetInt("display.height"),
			LayerY:      &layerY,
			LayerHeight: viper.GetInt("display.layer_height"),
			FPS:         viper.GetInt("display.fps"),
			Surface:     viper.GetString("display.surface"),
		},
		Log: config.LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		},
		Metrics: config.MetricsConfig{
			Addr: viper.GetString("metrics.addr"),
		},
	})
	if err != nil {
		return err
	}
	settings = resolved

	out := cmd.ErrOrStderr()
	if resolved.LogFile != "" {
		f, err := os.OpenFile(resolved.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}
	if err := logger.Setup(resolved.LogLevel, out); err != nil {
		log.WithError(err).Warn("invalid log level, using info")
	}
	log.WithFields(logrus.Fields{
		"surface": resolved.Surface,
		"size":    fmt.Sprintf("%dx%d", resolved.Width, resolved.Height),
	}).Debug("configuration loaded")
	return nil
}
