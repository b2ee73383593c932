package digest

import (
	"context"

	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/types"
)

// Coordinator runs one or two digest computations and collects each result
// exactly once.
type Coordinator struct {
	launcher Launcher
}

func NewCoordinator(launcher Launcher) *Coordinator {
	return &Coordinator{launcher: launcher}
}

// ComputeSingle returns the digest of the file at path.
func (c *Coordinator) ComputeSingle(ctx context.Context, path string) (string, error) {
	sums, err := c.compute(ctx, path)
	if err != nil {
		return "", err
	}

	return sums[0], nil
}

// ComputeTwo returns the digests of the files at pathA and pathB. Both
// computations run concurrently; either one failing fails the whole call.
func (c *Coordinator) ComputeTwo(ctx context.Context, pathA, pathB string) (string, string, error) {
	sums, err := c.compute(ctx, pathA, pathB)
	if err != nil {
		return "", "", err
	}

	return sums[0], sums[1], nil
}

// compute launches a computation for every path before reading any of them.
// Every handle that was launched is waited on and released before compute
// returns, whichever step failed.
func (c *Coordinator) compute(ctx context.Context, paths ...string) (sums []string, err error) {
	handles := make([]*Handle, 0, len(paths))
	defer func() {
		if ferr := finish(handles, err != nil); err == nil {
			err = ferr
		}
		if err != nil {
			sums = nil
		}
	}()

	for _, p := range paths {
		h, lerr := c.launcher.Launch(ctx, p)
		if lerr != nil {
			return nil, lerr
		}
		handles = append(handles, h)
	}

	sums = make([]string, len(handles))
	for i, h := range handles {
		sum, rerr := h.Read()
		if rerr != nil {
			var ce *types.ComputationError
			if errors.As(rerr, &ce) && ce.Op == opParse {
				// the output was drained, so the join can't block; a
				// failed exit says more than the garbage it printed
				if werr := h.Wait(); werr != nil {
					return nil, werr
				}
			}
			return nil, rerr
		}
		sums[i] = sum
	}

	return sums, nil
}

// finish joins and releases every handle. After a failure the channels are
// released first, so a producer stuck on a full channel gets EPIPE instead of
// blocking the join forever.
func finish(handles []*Handle, failed bool) error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if failed {
		for _, h := range handles {
			keep(h.Release())
		}
	}

	for _, h := range handles {
		keep(h.Wait())
	}

	for _, h := range handles {
		keep(h.Release())
	}

	return first
}

func launchError(path string, err error) error {
	return &types.ComputationError{Op: opLaunch, Target: path, Err: err}
}
