package compare

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/udhos/equalfile"
	"stackerbuild.io/issame/pkg/log"
	"stackerbuild.io/issame/pkg/types"
)

// VerifyBytes compares the contents of the two files byte by byte. It is
// meant as a second opinion after their digests matched. A progress bar is
// drawn on progress when it is not nil.
func VerifyBytes(pathA, pathB string, progress io.Writer) (bool, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return false, &types.FileAccessError{Path: pathA, Err: err}
	}
	defer fa.Close()

	fb, err := os.Open(pathB)
	if err != nil {
		return false, &types.FileAccessError{Path: pathB, Err: err}
	}
	defer fb.Close()

	ia, err := fa.Stat()
	if err != nil {
		return false, errors.Wrapf(err, "couldn't stat %s", pathA)
	}

	ib, err := fb.Stat()
	if err != nil {
		return false, errors.Wrapf(err, "couldn't stat %s", pathB)
	}

	if ia.Size() != ib.Size() {
		return false, nil
	}

	log.WithFields(log.Fields{"size": humanize.Bytes(uint64(ia.Size()))}).Debugf("comparing %s and %s byte by byte", pathA, pathB)

	var source io.Reader = fa
	if progress != nil {
		bar := pb.New64(ia.Size()).Set(pb.Bytes, true)
		bar.SetWriter(progress)
		bar.Start()
		source = bar.NewProxyReader(source)
		defer bar.Finish()
	}

	eq, err := equalfile.New(nil, equalfile.Options{}).CompareReader(source, fb)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't compare %s and %s", pathA, pathB)
	}

	return eq, nil
}
