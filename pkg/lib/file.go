package lib

import (
	"os"

	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/types"
)

// CheckReadable makes sure path is a regular file that can be opened for
// reading. The type is checked before the open, since opening a FIFO blocks
// until a writer shows up. Failures are *types.FileAccessError.
func CheckReadable(path string) (os.FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &types.FileAccessError{Path: path, Err: err}
	}

	if !fi.Mode().IsRegular() {
		return nil, &types.FileAccessError{Path: path, Err: errors.Errorf("%s is not a regular file", fi.Mode().Type())}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.FileAccessError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return nil, &types.FileAccessError{Path: path, Err: errors.Wrapf(err, "couldn't close %s", path)}
	}

	return fi, nil
}
