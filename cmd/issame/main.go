package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/term"
	issamelog "stackerbuild.io/issame/pkg/log"
	"stackerbuild.io/issame/pkg/types"
)

var (
	config  types.IssameConfig
	version = ""
)

const usageText = `Usage: issame [options] <file1> <file2>
Usage: issame [options] --one-file <file> <sha512 checksum>`

type stringWriter interface {
	io.Writer
	io.StringWriter
}

func shouldShowProgress(ctx *cli.Context, stderr io.Writer) bool {
	/* if the user provided explicit recommendations, follow those */
	if ctx.Bool("no-progress") {
		return false
	}
	if ctx.Bool("progress") {
		return true
	}

	/* otherwise, show it when the bar would land on a terminal */
	f, ok := stderr.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// normalizeArgs rewrites any spelling of --one-file to the canonical one, so
// the flag parser can match it case-insensitively. The single dash form is
// accepted too, as it is for every other flag.
func normalizeArgs(args []string) []string {
	out := append([]string{}, args...)
	for i := 1; i < len(out); i++ {
		if out[i] == "--" {
			break
		}
		if strings.EqualFold(out[i], types.OneFileFlag) || strings.EqualFold(out[i], types.OneFileFlag[1:]) {
			out[i] = types.OneFileFlag
		}
	}
	return out
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr stringWriter) int {
	status := types.ExitMatch

	var logFile *os.File
	// close the log file if we happen to open it
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	app := cli.NewApp()
	app.Name = "issame"
	app.Usage = "checks whether two files, or a file and a sha512 checksum, are the same"
	app.UsageText = usageText
	app.Version = version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "one-file",
			Usage: "compare <file> against <sha512 checksum> instead of another file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable issame debug mode",
			EnvVars: []string{"ISSAME_DEBUG"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "silence all logs",
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "log to a file instead of stderr",
			EnvVars: []string{"ISSAME_LOG_FILE"},
		},
		&cli.BoolFlag{
			Name:  "log-timestamps",
			Usage: "prefix log lines with a timestamp",
		},
		&cli.StringFlag{
			Name:    "digest-cmd",
			Usage:   "command printing the sha512 digest of the file given as its last argument",
			Value:   types.DefaultDigestCommand,
			EnvVars: []string{"ISSAME_DIGEST_CMD"},
		},
		&cli.BoolFlag{
			Name:    "builtin",
			Usage:   "compute digests in process instead of running --digest-cmd",
			EnvVars: []string{"ISSAME_BUILTIN"},
		},
		&cli.BoolFlag{
			Name:  "verify-bytes",
			Usage: "compare matching files byte by byte as well",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "show progress while verifying bytes",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "never show progress",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "print the result as none, text, json or yaml",
			Value: types.FormatNone,
		},
	}

	debug := false
	app.Before = func(ctx *cli.Context) error {
		logLevel := log.InfoLevel
		if ctx.Bool("debug") {
			debug = true
			logLevel = log.DebugLevel
			if ctx.Bool("quiet") {
				return errors.Errorf("debug and quiet don't make sense together")
			}
		} else if ctx.Bool("quiet") {
			logLevel = log.FatalLevel
		}

		handler := issamelog.NewTextHandler(stderr, ctx.Bool("log-timestamps"))
		if ctx.String("log-file") != "" {
			var err error
			logFile, err = os.Create(ctx.String("log-file"))
			if err != nil {
				return errors.Wrapf(err, "failed to access %v", ctx.String("log-file"))
			}
			handler = issamelog.NewTextHandler(logFile, ctx.Bool("log-timestamps"))
		}

		issamelog.FilterNonIssameLogs(handler, logLevel)
		issamelog.Debugf("issame version %s", version)

		config = types.IssameConfig{
			Debug:         debug,
			DigestCommand: ctx.String("digest-cmd"),
			Builtin:       ctx.Bool("builtin"),
			VerifyBytes:   ctx.Bool("verify-bytes"),
			Progress:      shouldShowProgress(ctx, stderr),
			Format:        ctx.String("format"),
		}

		return config.Validate()
	}

	app.Action = func(ctx *cli.Context) error {
		outcome, err := doCompare(ctx)
		if err != nil {
			return err
		}
		status = outcome.ExitCode()
		return nil
	}

	app.OnUsageError = func(ctx *cli.Context, err error, isSubcommand bool) error {
		return errors.Wrapf(types.ErrUsage, "%v", err)
	}

	if err := app.Run(normalizeArgs(args)); err != nil {
		if errors.Is(err, types.ErrUsage) {
			fmt.Fprintln(stderr, usageText)
		}

		format := "error: %v\n"
		if debug {
			format = "error: %+v\n"
		}

		fmt.Fprintf(stderr, format, err)
		return types.ExitCodeFor(err)
	}

	return status
}
