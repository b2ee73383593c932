package digest_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"stackerbuild.io/issame/pkg/digest"
	"stackerbuild.io/issame/pkg/types"
)

const worldSHA512 = "11853df40f4b2b919d3815f64792e58d08663767a494bcbb38c0b2389d9140bbb170281b4a847be7757bde12c9cd0054ce3652d0ad3a1a0c92babb69798246ee"

type fakeOut struct {
	io.Reader
	closes int
}

func (f *fakeOut) Close() error {
	f.closes++
	return nil
}

type fakeComputation struct {
	out   *fakeOut
	joins int
}

type fakeLauncher struct {
	outputs   map[string]string
	waitErrs  map[string]error
	launchErr map[string]error
	launched  []*fakeComputation
}

func (l *fakeLauncher) Launch(_ context.Context, path string) (*digest.Handle, error) {
	if err := l.launchErr[path]; err != nil {
		return nil, &types.ComputationError{Op: "launch", Target: path, Err: err}
	}

	fc := &fakeComputation{out: &fakeOut{Reader: strings.NewReader(l.outputs[path])}}
	l.launched = append(l.launched, fc)

	return digest.NewHandle(path, fc.out, func() error {
		fc.joins++
		return l.waitErrs[path]
	}), nil
}

func (l *fakeLauncher) assertCollected() {
	for _, fc := range l.launched {
		So(fc.joins, ShouldEqual, 1)
		So(fc.out.closes, ShouldEqual, 1)
	}
}

func TestCoordinator(t *testing.T) {
	ctx := context.Background()

	Convey("With two good computations", t, func() {
		l := &fakeLauncher{outputs: map[string]string{
			"a": helloSHA512 + "  a\n",
			"b": worldSHA512 + "  b\n",
		}}
		c := digest.NewCoordinator(l)

		a, b, err := c.ComputeTwo(ctx, "a", "b")
		So(err, ShouldBeNil)
		So(a, ShouldEqual, helloSHA512)
		So(b, ShouldEqual, worldSHA512)
		So(len(l.launched), ShouldEqual, 2)
		l.assertCollected()
	})

	Convey("With a single computation", t, func() {
		l := &fakeLauncher{outputs: map[string]string{"a": helloSHA512 + "  a\n"}}
		c := digest.NewCoordinator(l)

		sum, err := c.ComputeSingle(ctx, "a")
		So(err, ShouldBeNil)
		So(sum, ShouldEqual, helloSHA512)
		l.assertCollected()
	})

	Convey("When the second launch fails", t, func() {
		l := &fakeLauncher{
			outputs:   map[string]string{"a": helloSHA512 + "\n"},
			launchErr: map[string]error{"b": errors.New("no such tool")},
		}
		c := digest.NewCoordinator(l)

		_, _, err := c.ComputeTwo(ctx, "a", "b")
		So(err, ShouldNotBeNil)

		var ce *types.ComputationError
		So(errors.As(err, &ce), ShouldBeTrue)
		So(ce.Op, ShouldEqual, "launch")
		So(ce.Target, ShouldEqual, "b")

		So(len(l.launched), ShouldEqual, 1)
		l.assertCollected()
	})

	Convey("When a computation exits badly after printing nothing", t, func() {
		l := &fakeLauncher{
			outputs:  map[string]string{"a": helloSHA512 + "\n", "b": ""},
			waitErrs: map[string]error{"b": errors.New("exit status 1")},
		}
		c := digest.NewCoordinator(l)

		_, _, err := c.ComputeTwo(ctx, "a", "b")
		var ce *types.ComputationError
		So(errors.As(err, &ce), ShouldBeTrue)
		So(ce.Op, ShouldEqual, "wait")
		So(ce.Target, ShouldEqual, "b")
		l.assertCollected()
	})

	Convey("When a computation prints garbage and exits cleanly", t, func() {
		l := &fakeLauncher{outputs: map[string]string{"a": "garbage\n", "b": worldSHA512 + "\n"}}
		c := digest.NewCoordinator(l)

		_, _, err := c.ComputeTwo(ctx, "a", "b")
		var ce *types.ComputationError
		So(errors.As(err, &ce), ShouldBeTrue)
		So(ce.Op, ShouldEqual, "parse")
		So(ce.Target, ShouldEqual, "a")
		l.assertCollected()
	})

	Convey("When the first computation fails to wait", t, func() {
		l := &fakeLauncher{
			outputs:  map[string]string{"a": helloSHA512 + "\n", "b": worldSHA512 + "\n"},
			waitErrs: map[string]error{"a": errors.New("killed")},
		}
		c := digest.NewCoordinator(l)

		_, _, err := c.ComputeTwo(ctx, "a", "b")
		var ce *types.ComputationError
		So(errors.As(err, &ce), ShouldBeTrue)
		So(ce.Op, ShouldEqual, "wait")
		So(ce.Target, ShouldEqual, "a")
		l.assertCollected()
	})

	Convey("Output longer than a digest line is rejected", t, func() {
		l := &fakeLauncher{outputs: map[string]string{"a": strings.Repeat("f", digest.MaxLineSize+10)}}
		c := digest.NewCoordinator(l)

		_, err := c.ComputeSingle(ctx, "a")
		var ce *types.ComputationError
		So(errors.As(err, &ce), ShouldBeTrue)
		So(ce.Op, ShouldEqual, "read")
		l.assertCollected()
	})
}

func TestHandle(t *testing.T) {
	Convey("A handle", t, func() {
		out := &fakeOut{Reader: strings.NewReader(helloSHA512 + "\ntrailing junk\n")}
		joins := 0
		h := digest.NewHandle("a", out, func() error { joins++; return nil })
		So(h.Path(), ShouldEqual, "a")

		Convey("reads its digest once", func() {
			sum, err := h.Read()
			So(err, ShouldBeNil)
			So(sum, ShouldEqual, helloSHA512)

			_, err = h.Read()
			So(err, ShouldNotBeNil)
		})

		Convey("can't be read after release", func() {
			So(h.Release(), ShouldBeNil)
			_, err := h.Read()
			So(err, ShouldNotBeNil)
		})

		Convey("joins and closes only once", func() {
			So(h.Wait(), ShouldBeNil)
			So(h.Wait(), ShouldBeNil)
			So(h.Release(), ShouldBeNil)
			So(h.Release(), ShouldBeNil)
			So(joins, ShouldEqual, 1)
			So(out.closes, ShouldEqual, 1)
		})
	})
}
