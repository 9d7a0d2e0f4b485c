// Command sigilc is a thin CLI driver over the indexing core: it exists to
// exercise the wired pipeline (config -> coordinator -> namer -> resolve)
// end to end for tests and manual runs, not as a feature-complete type
// checker front-end.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"sigil/config"
	"sigil/report"
)

const sigilVersion = "0.1.0"

func main() {
	cmd := &cli.Command{
		Name:                   "sigilc",
		Usage:                  "check Ruby-ish source files against inferred sigil strictness levels",
		Version:                sigilVersion,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a sigil.toml configuration file",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "silent, error, warn, or verbose",
				Value: "verbose",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "worker pool size (0 = runtime.NumCPU())",
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "parse-tree cache directory (empty disables on-disk caching)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug-mode contract-violation panics (SIGIL_DEBUG)",
			},
		},
		ArgsUsage: "<path>...",
		Action:    runCheck,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("usage: sigilc [options] <path>...")
	}

	if cmd.Bool("debug") {
		os.Setenv("SIGIL_DEBUG", "1")
	}

	logLevel, err := parseLogLevel(cmd.String("loglevel"))
	if err != nil {
		return err
	}
	report.InitReporter(logLevel)

	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if workers := cmd.Int("workers"); workers > 0 {
		cfg.Workers = int(workers)
	}
	if cmd.IsSet("cache-dir") {
		cfg.CacheDir = cmd.String("cache-dir")
	}

	paths := cmd.Args().Slice()

	d := NewDriver(cfg)
	d.Coordinator.Workers = cfg.Workers

	ok := d.Check(paths)
	reportSummary(ok, countFiles(paths))

	if !ok {
		os.Exit(1)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseLogLevel(s string) (int, error) {
	switch s {
	case "silent":
		return report.LogLevelSilent, nil
	case "error":
		return report.LogLevelError, nil
	case "warn":
		return report.LogLevelWarn, nil
	case "verbose", "":
		return report.LogLevelVerbose, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

// countFiles is a best-effort count for the summary banner; it re-discovers
// since Driver.Check doesn't hand its file list back up (it reports success
// purely via report.ShouldProceed()).
func countFiles(paths []string) int {
	total := 0
	for _, p := range paths {
		files, err := discoverFiles(p)
		if err != nil {
			continue
		}
		total += len(files)
	}
	return total
}
