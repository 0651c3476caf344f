package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/oklog/run"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

type options struct {
	Config      string `short:"c" long:"config" description:"Path to the yaml config" default:"/etc/hwfan.yaml"`
	Verbose     bool   `short:"v" long:"verbose" description:"Enable debug logs"`
	List        bool   `long:"list" description:"Print the hardware monitors found and exit"`
	NoRootCheck bool   `long:"no-root-check" description:"Do not require root privileges"`
}

func main() {
	os.Exit(start(os.Args[1:]))
}

// start returns the process exit code.
func start(args []string) int {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return 1
	}

	log, err := newLogger(cfg.Log, opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if opts.List {
		if _, err := discover(cfg.HwmonRoot, log); err != nil {
			log.Error("unable to enumerate hwmon", zap.Error(err))
			return 1
		}
		return 0
	}

	if !opts.NoRootCheck && unix.Geteuid() != 0 {
		log.Error("must be run as root")
		return 1
	}

	daemon, err := NewDaemon(cfg, log)
	if err != nil {
		log.Error("fan daemon", zap.Error(err))
		return 1
	}
	defer daemon.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	g.Add(func() error {
		return daemon.Run(ctx)
	}, func(error) {
		cancel()
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()

	var sigErr run.SignalError
	switch {
	case errors.As(err, &sigErr):
		log.Info(fmt.Sprintf("signal %s received", sigErr.Signal))
	case err != nil:
		log.Error("fan daemon stopped", zap.Error(err))
		return 1
	}

	log.Info("bye")
	return 0
}
