package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/histeq/pkg/stdimg"
)

// DefaultInputPath is used when no input image is given on the command line.
const DefaultInputPath = "histogram-equalization.png"

// Config holds the settings of a run. Values come from the environment
// (optionally a .env file) and are then overridden by command-line flags.
type Config struct {
	InputPath   string
	OutputPath  string // non-empty selects batch mode
	PlotDir     string // where batch mode writes the histogram plots
	Workers     int
	PlotWidth   int
	PlotHeight  int
	PlotFont    string
	Preview     bool
	Interactive bool
	Debug       bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		InputPath:  DefaultInputPath,
		Workers:    1,
		PlotWidth:  stdimg.DefaultPlotWidth,
		PlotHeight: stdimg.DefaultPlotHeight,
		Preview:    true,
	}
}

// LoadEnvConfig loads .env (if present) and applies HISTEQ_* variables on
// top of DefaultConfig. Malformed numbers are reported, not ignored.
func LoadEnvConfig() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	var errs []error
	intEnv := func(key string, dst *int) {
		s := os.Getenv(key)
		if s == "" {
			return
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, s))
			return
		}
		*dst = v
	}
	intEnv("HISTEQ_WORKERS", &cfg.Workers)
	intEnv("HISTEQ_PLOT_WIDTH", &cfg.PlotWidth)
	intEnv("HISTEQ_PLOT_HEIGHT", &cfg.PlotHeight)
	if s := os.Getenv("HISTEQ_PLOT_FONT"); s != "" {
		cfg.PlotFont = s
	}
	if s := os.Getenv("HISTEQ_PREVIEW"); s != "" {
		b, err := parseBoolLikeToString(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("HISTEQ_PREVIEW: %w", err))
		} else {
			cfg.Preview = b == "true"
		}
	}
	cfg.Debug = envTrue("HISTEQ_DEBUG")
	setDebug(cfg.Debug)
	return cfg, errors.Join(errs...)
}

// Validate reports every invalid setting at once. The input image is only
// required in batch mode; the REPL can open one later.
func (c Config) Validate() error {
	var errs []error
	if !c.Interactive {
		if err := checkInput(c.InputPath); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.PlotWidth < 1 || c.PlotHeight < 1 {
		errs = append(errs, fmt.Errorf("plot size must be positive, got %dx%d", c.PlotWidth, c.PlotHeight))
	}
	if c.PlotDir != "" {
		if fi, err := os.Stat(c.PlotDir); err != nil || !fi.IsDir() {
			errs = append(errs, fmt.Errorf("plot directory %s could not be found", c.PlotDir))
		}
	}
	return errors.Join(errs...)
}

func checkInput(path string) error {
	if path == "" {
		return errors.New("no input image specified")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input image: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("input image %s is a directory", path)
	}
	return nil
}

var histeqDebug bool

func setDebug(on bool) { histeqDebug = on }

func debugLog(format string, args ...interface{}) {
	if histeqDebug {
		fmt.Fprintf(os.Stderr, "histeq: "+format+"\n", args...)
	}
}

func envTrue(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true"
}
