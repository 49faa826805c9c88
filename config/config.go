package config

import (
	"context"
	"errors"
	"fmt"
	"github.com/HannahMarsh/PrettyLogger"
	"github.com/HannahMarsh/monte_carlo_geometry/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/exp/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const fileName = "config.yml"

type Simulation struct {
	Trials        int    `yaml:"trials" env:"MCG_TRIALS" env-default:"100000" env-description:"number of trials per domain"`
	Seed          uint64 `yaml:"seed" env:"MCG_SEED" env-default:"0" env-description:"random seed, 0 derives one from the clock"`
	BatchSize     int    `yaml:"batchSize" env:"MCG_BATCH_SIZE" env-default:"10000" env-description:"trials per worker task"`
	Workers       int    `yaml:"workers" env:"MCG_WORKERS" env-default:"0" env-description:"worker pool size, 0 uses every CPU"`
	MaxRejections int    `yaml:"maxRejections" env:"MCG_MAX_REJECTIONS" env-default:"1000" env-description:"candidate draws allowed per disk point"`
}

type Plots struct {
	OutputDir        string `yaml:"outputDir" env:"MCG_OUTPUT_DIR" env-default:"." env-description:"directory for generated images"`
	Bins             int    `yaml:"bins" env:"MCG_BINS" env-default:"50" env-description:"histogram bins"`
	ScatterPoints    int    `yaml:"scatterPoints" env:"MCG_SCATTER_POINTS" env-default:"1000" env-description:"points drawn per domain in the sample plot"`
	ConvergenceSizes []int  `yaml:"convergenceSizes" env:"MCG_CONVERGENCE_SIZES" env-default:"100,500,1000,5000,10000,50000,100000" env-description:"sample sizes of the convergence sweep"`
}

type Config struct {
	LogLevel   string     `yaml:"logLevel" env:"MCG_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Simulation Simulation `yaml:"simulation"`
	Plots      Plots      `yaml:"plots"`
}

var GlobalConfig *Config
var GlobalCtx context.Context
var GlobalCancel context.CancelFunc

// InitGlobal loads the configuration into GlobalConfig. An empty path searches for config/config.yml in the
// working directory and then next to this source file.
func InitGlobal(path string) (err error) {
	GlobalCtx, GlobalCancel = context.WithCancel(context.Background())
	if GlobalConfig, err = Load(path); err != nil {
		return PrettyLogger.WrapError(err, "config.InitGlobal(): global config error")
	}
	return nil
}

// Load reads a configuration file and applies environment overrides. Without any file, the defaults and the
// environment are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, PrettyLogger.WrapError(err, fmt.Sprintf("failed to read config %s", path))
		}
	} else if err := readConfig(cfg, fileName); err != nil {
		slog.Debug("no config file found, using defaults and environment", "err", err)
		cfg = &Config{}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, PrettyLogger.WrapError(err, "failed to read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(cfg *Config, file string) error {
	var dir string
	var err error
	if dir, err = os.Getwd(); err != nil {
		return PrettyLogger.WrapError(err, "failed to get working directory")
	} else if err = cleanenv.ReadConfig(filepath.Join(dir, "config", file), cfg); err != nil {
		if _, currentFile, _, ok := runtime.Caller(0); !ok { // Get the absolute path of the current file
			return PrettyLogger.NewError("Failed to get current file path")
		} else if err = cleanenv.ReadConfig(filepath.Join(filepath.Dir(currentFile), file), cfg); err != nil {
			return PrettyLogger.WrapError(err, "failed to read config file")
		}
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.Trials <= 0 {
		errs = append(errs, fmt.Errorf("simulation.trials must be positive, got %d", c.Simulation.Trials))
	}
	if c.Simulation.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("simulation.batchSize must be positive, got %d", c.Simulation.BatchSize))
	}
	if c.Simulation.Workers < 0 {
		errs = append(errs, fmt.Errorf("simulation.workers must not be negative, got %d", c.Simulation.Workers))
	}
	if c.Simulation.MaxRejections <= 0 {
		errs = append(errs, fmt.Errorf("simulation.maxRejections must be positive, got %d", c.Simulation.MaxRejections))
	}
	if c.Plots.Bins <= 0 {
		errs = append(errs, fmt.Errorf("plots.bins must be positive, got %d", c.Plots.Bins))
	}
	if c.Plots.ScatterPoints <= 0 {
		errs = append(errs, fmt.Errorf("plots.scatterPoints must be positive, got %d", c.Plots.ScatterPoints))
	}
	if bad := utils.Filter(c.Plots.ConvergenceSizes, func(n int) bool { return n <= 0 }); len(bad) > 0 {
		errs = append(errs, fmt.Errorf("plots.convergenceSizes must be positive, got %v", bad))
	}
	if len(errs) > 0 {
		return PrettyLogger.WrapError(errors.Join(errs...), "invalid configuration")
	}
	return nil
}

// ResolveSeed replaces a zero seed with one taken from the clock and returns the seed in use.
func (c *Config) ResolveSeed() uint64 {
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = uint64(time.Now().UnixNano())
	}
	return c.Simulation.Seed
}

// WorkerCount is the configured pool size, or the number of CPUs when unset
func (c *Config) WorkerCount() int {
	if c.Simulation.Workers > 0 {
		return c.Simulation.Workers
	}
	return runtime.NumCPU()
}
