package main

import (
	cli "github.com/urfave/cli/v2"
	"stackerbuild.io/issame/pkg/compare"
	"stackerbuild.io/issame/pkg/digest"
	"stackerbuild.io/issame/pkg/types"
)

func positionalArgs(ctx *cli.Context) []string {
	args := ctx.Args().Slice()
	if ctx.Bool("one-file") {
		args = append([]string{types.OneFileFlag}, args...)
	}
	return args
}

func newLauncher() (digest.Launcher, error) {
	if config.Builtin {
		return digest.BuiltinLauncher{}, nil
	}

	return digest.NewCommandLauncher(config.DigestCommand)
}

func doCompare(ctx *cli.Context) (types.Outcome, error) {
	inv, err := compare.ParseArgs(positionalArgs(ctx))
	if err != nil {
		return types.UsageError, err
	}

	launcher, err := newLauncher()
	if err != nil {
		return types.OperationalError, err
	}

	opts := compare.Options{Launcher: launcher, VerifyBytes: config.VerifyBytes}
	if config.Progress {
		opts.Progress = ctx.App.ErrWriter
	}

	res, err := compare.Run(ctx.Context, inv, opts)
	if err != nil {
		return types.OutcomeFor(err), err
	}

	if err := printResult(ctx.App.Writer, res, config.Format); err != nil {
		return types.OperationalError, err
	}

	return res.Outcome, nil
}
