package digest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/lib"
)

// BuiltinLauncher computes digests in process, one goroutine per file. The
// goroutine writes a sha512sum formatted line into a pipe, so callers see the
// same channel and join discipline as with CommandLauncher.
type BuiltinLauncher struct{}

func (BuiltinLauncher) Launch(ctx context.Context, path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, launchError(path, errors.WithStack(err))
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		err := writeLine(pw, f, path)
		f.Close()
		pw.CloseWithError(err)
		done <- err
	}()

	return NewHandle(path, pr, func() error { return <-done }), nil
}

func writeLine(w io.Writer, f *os.File, path string) error {
	sum, err := lib.HashReader(f)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s  %s\n", sum, path)
	return errors.WithStack(err)
}
