package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evalbox/evalbox/pkg/launcher"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/runner"
)

type runOptions struct {
	lang     string
	file     string
	timeout  time.Duration
	nproc    int64
	memory   runner.Size
	output   runner.Size
	initPath string
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] [code...]",
		Short: "Evaluate code in a fresh sandbox process",
		Long: `Evaluate code in a fresh sandbox process and print its exit code,
stdout and stderr. The result of the last expression is not printed.

Code is taken from the arguments, or from --file ("-" reads stdin).`,
		Example: `  evalbox run 'console.log(1+1)'
  evalbox run --lang lua --memory 256M 'print(_VERSION)'
  evalbox run -f script.js --timeout 3s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, g, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.lang, "lang", "l", "javascript", "language (javascript, lua)")
	f.StringVarP(&o.file, "file", "f", "", `read code from file ("-" for stdin)`)
	f.DurationVarP(&o.timeout, "timeout", "t", 0, "wall time limit (default from profile)")
	f.Int64Var(&o.nproc, "nproc", 0, "process count ceiling (default from profile)")
	f.Var(&o.memory, "memory", "address space ceiling, e.g. 512M (default from profile)")
	f.Var(&o.output, "output", "bytes kept per output stream (default from profile)")
	f.StringVar(&o.initPath, "init-path", "", "sandbox binary (default: this binary)")
	return cmd
}

func (o *runOptions) code(cmd *cobra.Command, args []string) (string, error) {
	var code string
	switch o.file {
	case "":
		code = strings.Join(args, " ")
	case "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		code = string(b)
	default:
		b, err := os.ReadFile(o.file)
		if err != nil {
			return "", err
		}
		code = string(b)
	}
	code = strings.TrimRight(code, " \t\r\n")
	if code == "" {
		return "", errors.New("no code given")
	}
	return code, nil
}

func (o *runOptions) run(cmd *cobra.Command, g *globalOptions, args []string) error {
	lang, err := request.ParseLanguage(o.lang)
	if err != nil {
		return err
	}
	code, err := o.code(cmd, args)
	if err != nil {
		return err
	}

	p := g.conf.Profile(lang)
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		p.Timeout = o.timeout
	}
	if flags.Changed("nproc") {
		p.NProc = o.nproc
	}
	if flags.Changed("memory") {
		p.Memory = o.memory
	}
	if flags.Changed("output") {
		p.Output = o.output
	}

	lc, err := o.launcherConfig(g)
	if err != nil {
		return err
	}
	lc.Limit = p.Limit()
	lc.Logger = g.log

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	req := request.New(code, p.NProc, int64(p.Memory), lang)
	g.log.Debug("launching", zap.Stringer("profile", p), zap.Stringer("request", req))
	r, err := launcher.New(lc).Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatResult(r))
	return nil
}

func (o *runOptions) launcherConfig(g *globalOptions) (launcher.Config, error) {
	path := o.initPath
	if path == "" {
		path = g.conf.InitPath
	}
	if path != "" {
		return launcher.Config{Path: path}, nil
	}
	return launcher.Self("init")
}
