// Package main is the entry point for the inkwell editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edvik/inkwell/internal/app"
	"github.com/edvik/inkwell/internal/terminal"
)

func main() {
	os.Exit(run(parseFlags()))
}

func run(opts app.Options) int {
	application, err := app.New(opts)
	if err != nil {
		return fail("initializing: %v", err)
	}
	defer application.Shutdown()

	device, err := terminal.New()
	if err != nil {
		return fail("opening terminal: %v", err)
	}
	application.SetDevice(device)

	// SIGINT and SIGTERM tear the session down instead of leaving the
	// terminal in raw mode.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupts
		application.Shutdown()
	}()

	switch err := application.Run(); {
	case err == nil, errors.Is(err, app.ErrQuit):
		return 0
	default:
		return fail("%v", err)
	}
}

func fail(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "inkwell: "+format+"\n", args...)
	return 1
}

func parseFlags() app.Options {
	var (
		opts        app.Options
		showVersion bool
	)

	flag.StringVar(&opts.ConfigPath, "config", "", "path to the config file")
	flag.StringVar(&opts.ConfigPath, "c", "", "path to the config file (shorthand)")
	flag.StringVar(&opts.LogFile, "log-file", "", "write the session log to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "minimum log level: debug, info, warn or error")
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.BoolVar(&showVersion, "v", false, "print the version and exit (shorthand)")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "%s is a small terminal text editor.\n\n", app.Name)
		fmt.Fprintf(out, "usage: %s [options] [file]\n\n", app.Name)
		fmt.Fprintln(out, "options:")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nwith no file, %s opens an empty unnamed buffer.\n", app.Name)
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("%s %s\n", app.Name, app.Version)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "inkwell: unknown log level %q\n", opts.LogLevel)
		flag.Usage()
		os.Exit(2)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "inkwell: expected at most one file argument\n")
		flag.Usage()
		os.Exit(2)
	}
	opts.File = flag.Arg(0)

	return opts
}
