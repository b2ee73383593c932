package digest

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/log"
	"stackerbuild.io/issame/pkg/types"
)

// MaxLineSize bounds the digest line a computation may produce: 128 hex
// characters, a separator and a file name.
const MaxLineSize = 64 * 1024

const (
	opLaunch  = "launch"
	opRead    = "read"
	opParse   = "parse"
	opWait    = "wait"
	opRelease = "release"
)

// Launcher starts a digest computation for a single file.
type Launcher interface {
	Launch(ctx context.Context, path string) (*Handle, error)
}

// Handle is one in-flight digest computation.
type Handle struct {
	path string
	out  io.ReadCloser
	join func() error

	read     bool
	waited   bool
	released bool

	waitErr    error
	releaseErr error
}

// NewHandle wraps a started computation. out is the read end of the
// computation's dedicated output channel; join blocks until the computation
// has finished and reports how it ended.
func NewHandle(path string, out io.ReadCloser, join func() error) *Handle {
	return &Handle{path: path, out: out, join: join}
}

func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) fail(op string, err error) error {
	log.WithFields(log.Fields{"path": h.Path(), "op": op}).Debugf("digest computation failed: %v", err)
	return &types.ComputationError{Op: op, Target: h.path, Err: err}
}

// Read consumes the computation's output and returns the digest it carries.
// It reads up to the first line break, then drains the channel to EOF so the
// producer never blocks on a full channel. Read may be called once.
func (h *Handle) Read() (string, error) {
	if h.released {
		return "", h.fail(opRead, errors.Errorf("output channel already released"))
	}
	if h.read {
		return "", h.fail(opRead, errors.Errorf("output already read"))
	}
	h.read = true

	line, err := readLine(h.out)
	if err != nil {
		return "", h.fail(opRead, err)
	}

	sum, err := ParseLine(line)
	if err != nil {
		return "", h.fail(opParse, err)
	}

	log.WithFields(log.Fields{"path": h.Path(), "digest": sum}).Debugf("computed digest")
	return sum, nil
}

// Wait blocks until the computation has terminated. The computation is
// joined only once; later calls return the first result.
func (h *Handle) Wait() error {
	if h.waited {
		return h.waitErr
	}
	h.waited = true

	if err := h.join(); err != nil {
		h.waitErr = h.fail(opWait, err)
	}

	return h.waitErr
}

// Release closes the read end of the output channel. The channel is closed
// only once; later calls return the first result.
func (h *Handle) Release() error {
	if h.released {
		return h.releaseErr
	}
	h.released = true

	if err := h.out.Close(); err != nil {
		h.releaseErr = h.fail(opRelease, errors.WithStack(err))
	}

	return h.releaseErr
}

func readLine(r io.Reader) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, MaxLineSize+1))

	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.WithStack(err)
	}
	if !strings.HasSuffix(line, "\n") && len(line) > MaxLineSize {
		return "", errors.Errorf("digest line longer than %d bytes", MaxLineSize)
	}

	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", errors.Wrapf(err, "couldn't drain output")
	}

	return strings.TrimRight(line, "\r\n"), nil
}
