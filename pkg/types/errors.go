package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUsage is returned when the argument vector doesn't have the shape of
// either comparison mode. No file has been touched when it is returned.
var ErrUsage = errors.New("wrong number of arguments")

// FileAccessError reports an input file that can't be opened for reading.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ComputationError reports a failed launch, read, parse, wait or release of a
// digest computation, along with the file it was computing.
type ComputationError struct {
	Op     string
	Target string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("digest %s failed for %s: %v", e.Op, e.Target, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps an error returned by a comparison run to the process exit
// status.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitMatch
	}

	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitError
}
