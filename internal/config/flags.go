package config

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// ErrHelp is returned by ParseFlags after the help text was printed.
var ErrHelp = errors.New("help requested")

// Flags are the command-line options. Empty values leave the loaded config alone.
type Flags struct {
	ConfigPath  string `short:"c" long:"config" description:"Path to a YAML config file"`
	Env         string `long:"env" description:"Logging environment (local, dev, prod)"`
	Country     string `long:"country" description:"Country code for top headlines"`
	LogFile     string `long:"log-file" description:"Log file path, '-' to discard"`
	Version     bool   `short:"v" long:"version" description:"Print version and exit"`
	PrintConfig bool   `long:"print-config" description:"Print the effective configuration as YAML and exit"`
}

func ParseFlags(args []string) (Flags, error) {
	var f Flags
	parser := flags.NewParser(&f, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return Flags{}, ErrHelp
		}
		return Flags{}, fmt.Errorf("parse flags: %w", err)
	}
	return f, nil
}

// Apply overrides cfg with the flags that were set and revalidates.
func (f Flags) Apply(cfg *Config) error {
	if f.Env != "" {
		cfg.Env = f.Env
	}
	if f.Country != "" {
		cfg.API.Country = f.Country
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	return cfg.Validate()
}
