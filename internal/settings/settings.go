// Package settings reads process-wide options from the environment.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
)

// Environment variables understood by archgen.
const (
	EnvGenRoot    = "ARCHGEN_GEN_ROOT"
	EnvBuildCmd   = "ARCHGEN_BUILD_CMD"
	EnvBuildJobs  = "ARCHGEN_BUILD_JOBS"
	EnvLedger     = "ARCHGEN_LEDGER"
	EnvLog        = "ARCHGEN_LOG"
	EnvInspectDev = "ARCHGEN_INSPECT_DEV"
)

// Defaults used when the environment says nothing.
const (
	DefaultGenRoot  = "_generated"
	DefaultBuildCmd = "make"
)

// Settings are the process options that are not part of the architecture
// description.
type Settings struct {
	GenRoot   string
	BuildCmd  []string
	BuildJobs int
	Ledger    string
	LogLevel  string

	// InspectDev makes the inspector read its page from the source tree.
	InspectDev bool
}

// LoadDotEnv loads variables from the given files into the environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// FromEnv builds Settings from the environment.
func FromEnv() (Settings, error) {
	s := Settings{
		GenRoot:  getenv(EnvGenRoot, DefaultGenRoot),
		BuildCmd: strings.Fields(getenv(EnvBuildCmd, DefaultBuildCmd)),
		Ledger:   os.Getenv(EnvLedger),
		LogLevel: os.Getenv(EnvLog),
	}

	if len(s.BuildCmd) == 0 {
		return Settings{}, fmt.Errorf("%s is blank", EnvBuildCmd)
	}

	if v := strings.TrimSpace(os.Getenv(EnvBuildJobs)); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil || jobs <= 0 {
			return Settings{}, fmt.Errorf("%s must be a positive integer, got %q",
				EnvBuildJobs, v)
		}

		s.BuildJobs = jobs
	} else {
		s.BuildJobs = DefaultJobs()
	}

	if v := strings.TrimSpace(os.Getenv(EnvInspectDev)); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s must be a boolean, got %q",
				EnvInspectDev, v)
		}

		s.InspectDev = dev
	}

	return s, nil
}

// DefaultJobs is the number of physical cores, or 1 if it cannot be read.
func DefaultJobs() int {
	n, err := cpu.Counts(false)
	if err != nil || n <= 0 {
		return 1
	}

	return n
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}
