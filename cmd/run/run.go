package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sidkik/dirbackup/cmd/util"
	"github.com/sidkik/dirbackup/pkg/backup"
	"github.com/sidkik/dirbackup/pkg/config"
	"github.com/sidkik/dirbackup/pkg/errors"
	"github.com/sidkik/dirbackup/pkg/fswatch"
	"github.com/sidkik/dirbackup/pkg/loop"
)

const usage = "Start the program with these parameters:\n" +
	" dirbackup <source directory path> <backup directory path> " +
	"<backup period in seconds> <log file path>"

type unlocker interface {
	Unlock() error
}

// Mocked for unit testing.
var (
	fs                   = afero.NewOsFs()
	stdout     io.Writer = os.Stdout
	clock                = clockwork.NewRealClock()
	watch                = fswatch.Watch
	lockBackup           = func(dir string) (unlocker, error) { return backup.Lock(dir) }
)

// Invocation is the validated command line.
type Invocation struct {
	SourceDir string
	BackupDir string
	Interval  time.Duration
	LogPath   string
}

// New creates the command that runs the backup loop.
func New() *cobra.Command {
	var configPath string
	var flagOpts config.Options
	cmd := &cobra.Command{
		Use:   "dirbackup <source_dir> <backup_dir> <interval_seconds> <log_file>",
		Short: "Periodically mirror a directory into a backup directory",
		Long: "Every interval, copy new and changed files from the source " +
			"directory into the backup\ndirectory, and delete backup files " +
			"that no longer exist in the source.\nOnly files directly inside " +
			"the source directory are backed up. Every change is\nappended " +
			"to the log file.",
		Args: func(_ *cobra.Command, args []string) error {
			_, err := ParseArgs(args)
			return err
		},
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := config.ParseOptions(configPath)
			if err != nil {
				util.HandleFatalError(errors.WithContext(err, "read options"))
			}
			opts = mergeFlags(cmd, opts, flagOpts)

			// Args already validated the arguments.
			inv, _ := ParseArgs(args)
			if err := Run(context.Background(), inv, opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "",
		"Path to the options file. Defaults to "+config.DefaultOptionsPath+" if it exists.")
	cmd.Flags().BoolVar(&flagOpts.Watch, "watch", false,
		"Also start a pass as soon as a file in the source directory changes.")
	cmd.Flags().BoolVar(&flagOpts.KeepGoing, "keep-going", false,
		"Log failed passes and retry on the next interval instead of exiting.")
	cmd.Flags().IntVar(&flagOpts.Passes, "passes", 0,
		"Exit after this many passes. Zero runs forever.")
	cmd.Flags().BoolVar(&flagOpts.Verbose, "verbose", false,
		"Enable debug logging.")
	return cmd
}

// mergeFlags overrides the values in `opts` with the flags that were
// explicitly set on the command line.
func mergeFlags(cmd *cobra.Command, opts, flagOpts config.Options) config.Options {
	flags := cmd.Flags()
	if flags.Changed("watch") {
		opts.Watch = flagOpts.Watch
	}
	if flags.Changed("keep-going") {
		opts.KeepGoing = flagOpts.KeepGoing
	}
	if flags.Changed("passes") {
		opts.Passes = flagOpts.Passes
	}
	if flags.Changed("verbose") {
		opts.Verbose = flagOpts.Verbose
	}
	return opts
}

// ParseArgs validates the positional arguments.
func ParseArgs(args []string) (Invocation, error) {
	if len(args) != 4 {
		return Invocation{}, errors.InvalidArguments{
			Reason: fmt.Sprintf("Expected 4 arguments, but got %d.", len(args)),
			Usage:  usage,
		}
	}

	seconds, err := strconv.Atoi(args[2])
	if err != nil || seconds < 0 {
		return Invocation{}, errors.InvalidArguments{
			Reason: fmt.Sprintf("The backup period must be a whole number of "+
				"seconds, but got %q.", args[2]),
			Usage: usage,
		}
	}

	return Invocation{
		SourceDir: args[0],
		BackupDir: args[1],
		Interval:  time.Duration(seconds) * time.Second,
		LogPath:   args[3],
	}, nil
}

// Run checks that the source directory exists, and then synchronizes it
// into the backup directory until the process is interrupted, the
// configured number of passes completes, or a pass fails.
func Run(ctx context.Context, inv Invocation, opts config.Options) error {
	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	exists, err := afero.Exists(fs, inv.SourceDir)
	if err != nil {
		return errors.WithContext(err, "check source directory")
	}
	if !exists {
		return errors.SourceDirectoryMissing{Path: inv.SourceDir}
	}

	lock, err := lockBackup(inv.BackupDir)
	if err != nil {
		return errors.WithContext(err, "lock backup directory")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warn("Failed to release backup directory lock")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var trigger <-chan struct{}
	if opts.Watch {
		events, closer, err := watch(inv.SourceDir)
		if err != nil {
			log.WithError(err).WithField("path", inv.SourceDir).Warn(
				"Failed to watch the source directory for changes. " +
					"Falling back to only synchronizing on the interval.")
		} else {
			defer closer.Close()
			trigger = events
		}
	}

	fmt.Fprintf(stdout, "Synchronization of these folders is done:\n%s\n%s\n\n",
		inv.SourceDir, inv.BackupDir)

	syncer := backup.New(fs, clock, stdout)
	l := loop.Loop{
		Interval:  inv.Interval,
		Passes:    opts.Passes,
		Clock:     clock,
		Trigger:   trigger,
		KeepGoing: opts.KeepGoing,
	}
	return l.Run(ctx, func(context.Context) error {
		if _, err := syncer.Run(inv.SourceDir, inv.BackupDir, inv.LogPath); err != nil {
			return errors.WithContext(err, "synchronize")
		}
		fmt.Fprintf(stdout, "%s Synchronization done\n", backup.FormatTimestamp(clock.Now()))
		return nil
	})
}
