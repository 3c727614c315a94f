package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dzonerzy/haggis/haggis"
	haggisio "github.com/dzonerzy/haggis/io"
	"github.com/dzonerzy/haggis/templatefile"
)

// Environment variables read when the matching flag is not given
const (
	envTemplate  = "HAGGIS_TEMPLATE"
	envOutput    = "HAGGIS_OUTPUT"
	envInitial   = "HAGGIS_INITIAL"
	envLenient   = "HAGGIS_LENIENT"
	envColor     = "HAGGIS_COLOR"
	envLogFormat = "HAGGIS_LOG_FORMAT"
)

const defaultEnvFile = ".env"

// options holds the resolved settings of one invocation
type options struct {
	template  string
	output    string
	initial   string
	lenient   bool
	quiet     bool
	debug     bool
	color     string
	logFormat string
	envFile   string
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	m := haggisio.New().WithOut(stdout).WithErr(stderr)
	// Logs never mix with the rendered result
	lm := haggisio.New().WithOut(stderr).WithErr(stderr)
	log := haggisio.NewLogger(lm)

	cmd := newRootCmd(m, lm, log)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		log.Error("%v", err)
	}
	return exitCode(err)
}

func newRootCmd(m, lm *haggisio.IOManager, log *haggisio.Logger) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "haggis --template FILE [flags] -- ARGS...",
		Short: "Bind arguments to a template and print the result",
		Long: `haggis reads a template (JSON, YAML or TOML) whose values describe how
arguments bind: booleans are switches, arrays collect values, everything else
keeps the last value given. Arguments after -- are parsed against it.

Settings fall back to HAGGIS_TEMPLATE, HAGGIS_OUTPUT, HAGGIS_INITIAL,
HAGGIS_LENIENT, HAGGIS_COLOR and HAGGIS_LOG_FORMAT, then to a .env file.

Examples:
  haggis -t copy.json -- -s index.js package.json -d /tmp --exclude
  haggis -t copy.yaml -o yaml -i source -- a.txt b.txt -d out`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveOptions(cmd.Flags(), &opts); err != nil {
				return err
			}
			if err := configureOutput(m, lm, log, opts); err != nil {
				return err
			}
			return execute(m, log, opts, args)
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", "", "template file (.json, .yaml, .yml, .toml)")
	f.StringVarP(&opts.output, "output", "o", "json", "output format: json, yaml, toml, text")
	f.StringVarP(&opts.initial, "initial", "i", haggis.DefaultInitial, "field receiving values before the first flag")
	f.BoolVar(&opts.lenient, "lenient", false, "keep names that are not template fields")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not report diagnostics")
	f.BoolVar(&opts.debug, "debug", false, "log the parsed instructions")
	f.StringVar(&opts.color, "color", "auto", "color output: auto, always, never")
	f.StringVar(&opts.logFormat, "log-format", "circles", "log prefix style: circles, symbols, tagged, plain")
	f.StringVar(&opts.envFile, "env-file", defaultEnvFile, "file with HAGGIS_* defaults")

	return cmd
}

// resolveOptions fills unset flags from the environment, then from the env
// file
func resolveOptions(flags *pflag.FlagSet, opts *options) error {
	dotenv, err := godotenv.Read(opts.envFile)
	if err != nil {
		// A missing default file is fine, a missing explicit one is not
		if !errors.Is(err, fs.ErrNotExist) || flags.Changed("env-file") {
			return usagef("read env file %s: %w", opts.envFile, err)
		}
		dotenv = nil
	}

	lookup := func(name string) (string, bool) {
		if v := os.Getenv(name); v != "" {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok && v != ""
	}

	fill := func(flag, env string, dst *string) {
		if flags.Changed(flag) {
			return
		}
		if v, ok := lookup(env); ok {
			*dst = v
		}
	}
	fill("template", envTemplate, &opts.template)
	fill("output", envOutput, &opts.output)
	fill("initial", envInitial, &opts.initial)
	fill("color", envColor, &opts.color)
	fill("log-format", envLogFormat, &opts.logFormat)

	if !flags.Changed("lenient") {
		if v, ok := lookup(envLenient); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return usagef("%s: invalid boolean %q", envLenient, v)
			}
			opts.lenient = b
		}
	}

	if opts.template == "" {
		return usagef("no template given, use --template or %s", envTemplate)
	}
	if _, ok := renderers[opts.output]; !ok {
		return usagef("unknown output format %q, expected json, yaml, toml or text", opts.output)
	}
	return nil
}

// configureOutput applies color and logging settings
func configureOutput(m, lm *haggisio.IOManager, log *haggisio.Logger, opts options) error {
	mode, ok := haggisio.ParseColorMode(opts.color)
	if !ok {
		return usagef("unknown color mode %q, expected auto, always or never", opts.color)
	}
	m.WithColorMode(mode)
	lm.WithColorMode(mode)

	format, ok := haggisio.ParseLogFormat(opts.logFormat)
	if !ok {
		return usagef("unknown log format %q", opts.logFormat)
	}
	log.WithFormat(format).WithTheme(haggisio.DefaultTheme(lm))

	switch {
	case opts.quiet:
		log.WithLevel(haggisio.LevelError)
	case opts.debug:
		log.WithLevel(haggisio.LevelDebug)
	}
	return nil
}

// execute loads the template, parses args and writes the result
func execute(m *haggisio.IOManager, log *haggisio.Logger, opts options, args []string) error {
	tpl, err := templatefile.Load(opts.template)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	p := haggis.NewParser(tpl, haggis.Config{Strict: !opts.lenient, Initial: opts.initial})
	for _, a := range p.Ambiguities() {
		log.Debug("-%c resolves to %s, shadowing %v", a.Letter, a.Winner, a.Shadows)
	}

	if log.Enabled(haggisio.LevelDebug) {
		argv := append([]string{"", ""}, args...)
		for _, ins := range p.Instructions(argv) {
			log.Debug("%s %v <- %s", ins.Origin, ins.Names, haggis.List(ins.Data...))
		}
	}

	res := p.ParseArgs(args)
	for _, d := range res.Diagnostics() {
		if d.Position >= 0 {
			log.Warning("arg %d: %s", d.Position+1, d)
		} else {
			log.Warning("%s", d)
		}
	}

	return renderers[opts.output](m, res)
}
