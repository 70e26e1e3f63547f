// Command sile-dump prints what sile can read from simulation output files:
// the detected format, the info attributes and the record bodies.
//
// Usage:
//
//	sile-dump [flags] <file>...
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/simonhull/sile"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

type options struct {
	format   string
	config   string
	out      string
	logLevel string
	attrs    bool
	strict   bool
	version  bool
	formats  bool
}

func parseFlags(errOut io.Writer, args []string) (options, []string, int) {
	var opts options

	flagSet := flag.NewFlagSet("sile-dump", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fmt.Fprintln(errOut, "Usage: sile-dump [flags] <file>...")
		flagSet.PrintDefaults()
	}

	flagSet.StringVarP(&opts.format, "format", "f", "", "Format tag or extension, overrides the file name")
	flagSet.StringVarP(&opts.config, "config", "c", "", "JSON config file (comments allowed)")
	flagSet.StringVarP(&opts.out, "out", "o", "", "Write the data record as TSV to this file (single input only)")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flagSet.BoolVarP(&opts.attrs, "attrs", "a", false, "Print info attributes")
	flagSet.BoolVar(&opts.strict, "strict", false, "Treat warnings as errors")
	flagSet.BoolVar(&opts.version, "version", false, "Print version and exit")
	flagSet.BoolVar(&opts.formats, "formats", false, "List registered formats and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, nil, 0
		}
		return opts, nil, 2
	}

	if opts.version || opts.formats {
		return opts, flagSet.Args(), -1
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return opts, nil, 2
	}
	if opts.out != "" && flagSet.NArg() > 1 {
		fmt.Fprintln(errOut, "error: --out needs exactly one input file")
		return opts, nil, 2
	}

	// The config file's level applies unless the flag was given.
	if !flagSet.Changed("log-level") {
		opts.logLevel = ""
	}
	return opts, flagSet.Args(), -1
}

func run(out, errOut io.Writer, args []string) int {
	opts, paths, code := parseFlags(errOut, args)
	if code >= 0 {
		return code
	}

	if opts.version {
		v := sile.GetVersionInfo()
		fmt.Fprintf(out, "sile-dump %s (commit %s, built %s, %s)\n", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
		return 0
	}
	if opts.formats {
		for _, k := range sile.Formats() {
			fmt.Fprintln(out, k)
		}
		return 0
	}

	var openOpts []sile.Option
	level := slog.LevelWarn

	if opts.config != "" {
		cfg, err := sile.LoadConfig(opts.config)
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		if err := cfg.Apply(); err != nil {
			fmt.Fprintln(errOut, "error:", err)
			return 1
		}
		if cfg.LogLevel != "" {
			level, _ = cfg.Level()
		}
		openOpts = append(openOpts, cfg.Options()...)
	}
	if opts.logLevel != "" {
		if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
			fmt.Fprintln(errOut, "error: --log-level:", err)
			return 2
		}
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
	openOpts = append(openOpts, sile.WithLogger(logger))
	if opts.format != "" {
		openOpts = append(openOpts, sile.WithFormat(opts.format))
	}
	if opts.strict {
		openOpts = append(openOpts, sile.WithStrict())
	}

	failed := false
	for _, path := range paths {
		err := sile.With(path, func(s sile.Sile) error {
			return dump(out, s, opts)
		}, openOpts...)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			failed = true
		}
	}

	if failed {
		return 1
	}
	return 0
}

func dump(out io.Writer, s sile.Sile, opts options) error {
	fmt.Fprintf(out, "%s (%s)\n", s.Path(), s.Format())

	if opts.attrs {
		for _, name := range s.InfoNames() {
			v, err := s.Info(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  %-20s %v\n", name, v)
		}
	}

	if _, ok := s.(sile.DataReader); ok {
		rec, err := sile.ReadData(s)
		if err != nil {
			return err
		}
		if opts.out != "" {
			if err := sile.SaveRecord(opts.out, rec); err != nil {
				return err
			}
			fmt.Fprintf(out, "  wrote %d rows to %s\n", rec.Len(), opts.out)
		} else if err := rec.WriteTSV(out); err != nil {
			return err
		}
	}

	if _, ok := s.(sile.HamiltonianReader); ok {
		m, err := sile.ReadHamiltonian(s)
		if err != nil {
			return err
		}
		printMatrix(out, "hamiltonian", m)
	}
	if _, ok := s.(sile.OverlapReader); ok {
		m, err := sile.ReadOverlap(s)
		if err != nil {
			return err
		}
		printMatrix(out, "overlap", m)
	}

	for _, w := range s.Warnings() {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	return nil
}

func printMatrix(out io.Writer, what string, m *sile.OrbitalMatrix) {
	fmt.Fprintf(out, "  %s: %d atoms, %d orbitals, %d elements", what, m.Atoms, m.NumOrbitals(), m.NNZ())
	if m.Unit != "" {
		fmt.Fprintf(out, ", unit %s", m.Unit)
	}
	if m.Spin > 0 {
		fmt.Fprintf(out, ", spin %d", m.Spin)
	}
	fmt.Fprintln(out)
}
