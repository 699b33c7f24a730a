package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/temoc-ci/temoc/internal/config"
	"github.com/temoc-ci/temoc/internal/executor"
	"github.com/temoc-ci/temoc/internal/portpool"
	"github.com/temoc-ci/temoc/internal/report"
	"github.com/temoc-ci/temoc/internal/slimclient"
)

// ExitError carries the process exit code a session-level failure should
// produce: 0 all-pass, 1 any failure, 2 usage/config error, 3 SUT spawn
// failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

var runCmd = &cobra.Command{
	Use:   "run [FILES...]",
	Short: "Run decision-table files against the configured SUT",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.FromViper(viper.GetViper())

	if cfg.ServerCommand == "" {
		return &ExitError{Code: 2, Err: fmt.Errorf("execute_server_command is not set (use --server-command or TEMOC_SERVER_COMMAND)")}
	}
	if cfg.PoolSize < 1 {
		return &ExitError{Code: 2, Err: fmt.Errorf("pool_size must be >= 1, got %d", cfg.PoolSize)}
	}

	files, err := discoverFiles(args, cfg)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}
	if len(files) == 0 {
		return &ExitError{Code: 2, Err: fmt.Errorf("no %s files found under %s", cfg.Extension, cfg.TestDir)}
	}

	log := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()
	renderer := report.NewRenderer(cfg.Format, cmd.OutOrStdout())

	pool := portpool.New(cfg.Port, cfg.PoolSize)
	runCfg := executor.RunConfig{
		ServerCommand:  cfg.ServerCommand,
		ConnectTimeout: cfg.ConnectTimeout,
		PipeOutput:     cfg.PipeOutput,
		Deadline:       cfg.Deadline,
		Log:            log,
	}

	reports := runFiles(cmd.Context(), pool, files, runCfg, renderer, cfg.ShowSnoozed)
	renderer.RenderSummary(reports)

	for _, rep := range reports {
		if rep == nil {
			continue
		}
		if rep.Err != nil && isSpawnFault(rep.Err) {
			return &ExitError{Code: 3, Err: rep.Err}
		}
	}
	for _, rep := range reports {
		if rep == nil || !rep.Passed() {
			return &ExitError{Code: 1, Err: fmt.Errorf("one or more files failed")}
		}
	}
	return nil
}

// runFiles drives files through executor.RunFile concurrently, bounded by
// pool's size, via portpool.RunFilesOrdered, which streams each report to
// renderer in original file order as soon as it's ready, so reports print
// in the order files were given rather than completion order.
func runFiles(ctx context.Context, pool *portpool.Pool, files []string, cfg executor.RunConfig, renderer report.Renderer, showSnoozed bool) []*executor.FileReport {
	work := func(ctx context.Context, path string, lease portpool.Lease) *executor.FileReport {
		return executor.RunFile(ctx, path, lease, cfg)
	}
	return portpool.RunFilesOrdered(ctx, pool, files, work, func(rep *executor.FileReport) {
		renderer.RenderFile(rep, showSnoozed)
	})
}

// discoverFiles returns args verbatim if given; otherwise it walks
// cfg.TestDir (recursively if cfg.Recursive) collecting files matching
// cfg.Extension, sorted for reproducible ordering.
func discoverFiles(args []string, cfg config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var files []string
	suffix := "." + strings.TrimPrefix(cfg.Extension, ".")

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !cfg.Recursive && path != cfg.TestDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, suffix) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(cfg.TestDir, walk); err != nil {
		return nil, fmt.Errorf("discovering test files under %s: %w", cfg.TestDir, err)
	}
	return files, nil
}

func isSpawnFault(err error) bool {
	var spawnErr *slimclient.SpawnError
	var timeoutErr *slimclient.SpawnTimeout
	var handshakeErr *slimclient.HandshakeError
	return errors.As(err, &spawnErr) || errors.As(err, &timeoutErr) || errors.As(err, &handshakeErr)
}
