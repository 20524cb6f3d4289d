// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON config file and
// environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment (a .env file in the working directory is loaded into it),
// explicitly set flags.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// StoreFileName is the name of the store file in either location.
	StoreFileName = ".lotp.json"
	appDir        = "otpkeeper"
)

var (
	ErrConfigFile = errors.New("config file")
	ErrEnv        = errors.New("environment")
	ErrNoUser     = errors.New("cannot determine user name")
)

// Options holds the configuration values for the application.
type Options struct {
	// StorePath overrides the store file location.
	StorePath string `json:"store_path" env:"OTPKEEPER_STORE"`

	// ExeDir keeps the store next to the executable instead of the user
	// config directory. Ignored when StorePath is set.
	ExeDir bool `json:"exe_dir" env:"OTPKEEPER_EXE_DIR"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level" env:"OTPKEEPER_LOG_LEVEL"`

	// AutoSave writes the store after every command that changes it.
	AutoSave bool `json:"autosave" env:"OTPKEEPER_AUTOSAVE"`

	// User overrides the platform user name fed into key derivation.
	User string `json:"user" env:"OTPKEEPER_USER"`

	// Config is the path to the config file.
	Config string `json:"-" env:"OTPKEEPER_CONFIG"`

	// Version asks the binary to print build information and exit.
	Version bool `json:"-"`
}

func defaults() Options {
	return Options{
		LogLevel: "warn",
		AutoSave: true,
	}
}

// Parse reads the process flags and environment.
func Parse() (*Options, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load registers the option flags on fset, parses args and merges the config
// file and environment underneath the flags that were set explicitly.
func Load(fset *flag.FlagSet, args []string) (*Options, error) {
	cli := defaults()
	fset.StringVar(&cli.StorePath, "s", cli.StorePath, "path to the store file")
	fset.StringVar(&cli.StorePath, "store", cli.StorePath, "path to the store file")
	fset.BoolVar(&cli.ExeDir, "exe-dir", cli.ExeDir, "keep the store next to the executable")
	fset.StringVar(&cli.LogLevel, "l", cli.LogLevel, "log level (debug, info, warn, error)")
	fset.BoolVar(&cli.AutoSave, "autosave", cli.AutoSave, "save after every change")
	fset.StringVar(&cli.User, "user", cli.User, "user name for key derivation")
	fset.StringVar(&cli.Config, "config", "", "path to config file")
	fset.StringVar(&cli.Config, "c", "", "path to config file (shorthand)")
	fset.BoolVar(&cli.Version, "version", false, "show build version and date")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// .env may be absent
	_ = godotenv.Load()

	options := defaults()
	options.Config = cli.Config
	if options.Config == "" {
		options.Config = os.Getenv("OTPKEEPER_CONFIG")
	}
	if options.Config != "" {
		if err := readFile(options.Config, &options); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&options); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnv, err)
	}

	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s", "store":
			options.StorePath = cli.StorePath
		case "exe-dir":
			options.ExeDir = cli.ExeDir
		case "l":
			options.LogLevel = cli.LogLevel
		case "autosave":
			options.AutoSave = cli.AutoSave
		case "user":
			options.User = cli.User
		case "c", "config":
			options.Config = cli.Config
		case "version":
			options.Version = cli.Version
		}
	})

	return &options, nil
}

func readFile(path string, options *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %w", ErrConfigFile, path, err)
	}
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfigFile, path, err)
	}
	return nil
}

// ResolveStorePath returns the store file location: StorePath if set,
// otherwise next to the executable with ExeDir, otherwise
// <user config dir>/otpkeeper/.lotp.json.
func (o *Options) ResolveStorePath() (string, error) {
	if o.StorePath != "" {
		return o.StorePath, nil
	}
	if o.ExeDir {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Join(filepath.Dir(exe), StoreFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, appDir, StoreFileName), nil
}

// Username returns User if set, otherwise the name of the current platform
// user.
func (o *Options) Username() (string, error) {
	if o.User != "" {
		return o.User, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoUser, err)
	}
	if u.Username == "" {
		return "", ErrNoUser
	}
	return u.Username, nil
}
