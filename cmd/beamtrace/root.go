package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/beamtools/beamtrace/internal/config"
)

var (
	cfgFile     string
	verbose     bool
	veryVerbose bool
	logToFile   bool

	// cfg is the effective configuration shared by subcommands
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:     "beamtrace",
	Short:   "Beam center and flux determination for beamstop-less measurements",
	Version: "",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}

		if cfgFile != "" {
			c, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
			debugf("loaded config from %s", cfgFile)
		} else {
			cfg = config.Default()
		}
		return nil
	},
}

// Execute runs the root command with a signal-cancellable context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file with pipeline tunables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "increase output verbosity to INFO level")
	rootCmd.PersistentFlags().BoolVar(&veryVerbose, "very-verbose", false, "increase output verbosity to DEBUG level")
	rootCmd.PersistentFlags().BoolVarP(&logToFile, "logging", "l", false, "write log out to a timestamped file")
}

// setupLogging sends logs to stderr and, when requested, to a timestamped
// file alongside the working directory.
func setupLogging() error {
	log.SetFlags(log.Ldate | log.Ltime)

	out := io.Writer(os.Stderr)
	if logToFile {
		name := "beamtrace_" + time.Now().Format("20060102_150405") + ".log"
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
	}
	log.SetOutput(out)
	return nil
}

func infof(format string, args ...interface{}) {
	if verbose || veryVerbose {
		log.Printf("INFO "+format, args...)
	}
}

func debugf(format string, args ...interface{}) {
	if veryVerbose {
		log.Printf("DEBUG "+format, args...)
	}
}

// parseKeyVals splits repeated key=value flags into a map.
func parseKeyVals(kvs []string) (map[string]string, error) {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid key-value pair %q (want key=value)", kv)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}
