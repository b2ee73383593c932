package digest

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/apparentlymart/go-shquot/shquot"
	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/log"
)

// CommandLauncher runs an external digest tool per file, with its standard
// output connected to a pipe owned by the returned Handle.
type CommandLauncher struct {
	argv []string
}

// NewCommandLauncher splits command with POSIX shell rules. The file path is
// appended as the last argument on every launch.
func NewCommandLauncher(command string) (*CommandLauncher, error) {
	argv, err := shlex.Split(command, true)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't parse digest command %q", command)
	}

	if len(argv) == 0 {
		return nil, errors.Errorf("empty digest command")
	}

	return &CommandLauncher{argv: argv}, nil
}

func (l *CommandLauncher) Launch(ctx context.Context, path string) (*Handle, error) {
	arg := path
	if strings.HasPrefix(arg, "-") {
		// don't let the tool take the file for an option
		arg = "./" + arg
	}

	args := append(append([]string{}, l.argv[1:]...), arg)
	cmd := exec.CommandContext(ctx, l.argv[0], args...)

	r, w, err := os.Pipe()
	if err != nil {
		return nil, launchError(path, errors.Wrapf(err, "couldn't create pipe"))
	}

	stderr := &bytes.Buffer{}
	cmd.Stdout = w
	cmd.Stderr = stderr

	log.WithFields(log.Fields{"path": path, "op": opLaunch}).Debugf("running %s", shquot.POSIXShell(cmd.Args))
	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, launchError(path, errors.Wrapf(err, "couldn't run %s", l.argv[0]))
	}

	// the child holds its own copy of the write end; ours has to go or the
	// reader never sees EOF
	if err := w.Close(); err != nil {
		r.Close()
		cmd.Wait()
		return nil, launchError(path, errors.Wrapf(err, "couldn't close pipe write end"))
	}

	join := func() error {
		err := cmd.Wait()
		if err == nil {
			return nil
		}

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.Wrapf(err, "%s", msg)
		}

		return errors.WithStack(err)
	}

	return NewHandle(path, r, join), nil
}
