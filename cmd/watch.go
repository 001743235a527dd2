package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	rerrors "github.com/conneroisu/routegen/internal/errors"
	"github.com/conneroisu/routegen/internal/services"
	"github.com/conneroisu/routegen/internal/session"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch the app directory for new route folders",
	Long: `Watch the configured directory and populate every new <name>.<type>
folder once its contents settle. This is also what routegen does when run
without a subcommand.

Folders that already exist at startup are processed too unless
--ignore-initial is given. Press Ctrl+C to stop.

Examples:
  routegen watch
  WATCH_DIR=src/app routegen watch
  routegen watch --ignore-initial --log-level debug`,
	RunE: runWatch,
}

var (
	watchIgnoreInitial bool
	watchNoLock        bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addWatchFlags(watchCmd.Flags())
}

// addWatchFlags registers the watch flags on fs. The root command and the
// watch subcommand share them.
func addWatchFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&watchIgnoreInitial, "ignore-initial", false, "Do not process folders that exist at startup")
	fs.BoolVar(&watchNoLock, "no-lock", false, "Allow more than one watcher on the same directory")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	out := newPrinter(cmd.OutOrStdout())
	go func() {
		select {
		case <-sigChan:
			out.Info("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	service := services.NewWatchService(cfg, newLogger(cfg))
	result, err := service.Watch(ctx, services.WatchOptions{
		IgnoreInitial: watchIgnoreInitial,
		NoLock:        watchNoLock,
		Ready: func(s *session.Session) {
			out.Success("Watching %s", s.Root())
			out.Detail("session %s", s.ID())
		},
	})
	if err != nil {
		if errors.Is(err, rerrors.ErrWatchRootMissing) {
			return fmt.Errorf("watch directory does not exist; create it or set %q in %s: %w", "watchDir", configPath, err)
		}
		return err
	}

	out.Info("Processed %d folder(s), %d failed, %d skipped",
		result.Stats.Processed, result.Stats.Failed, result.Stats.Rejected)
	return nil
}
