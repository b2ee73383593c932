package compare

import (
	"context"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"stackerbuild.io/issame/pkg/digest"
	"stackerbuild.io/issame/pkg/lib"
	"stackerbuild.io/issame/pkg/log"
	"stackerbuild.io/issame/pkg/types"
)

type Mode int

const (
	TwoFiles Mode = iota
	OneFile
)

func (m Mode) String() string {
	if m == OneFile {
		return "one-file"
	}
	return "two-file"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Invocation is a parsed command line: the files to digest and, in one-file
// mode, the checksum to hold the digest against.
type Invocation struct {
	Mode     Mode
	Files    []string
	Checksum string
}

// ParseArgs picks the comparison mode from the positional arguments. The
// mode is one-file iff the first argument is --one-file in any case. Any other
// shape than "<file> <file>" or "--one-file <file> <checksum>" is a usage
// error.
func ParseArgs(args []string) (*Invocation, error) {
	if len(args) > 0 && strings.EqualFold(args[0], types.OneFileFlag) {
		if len(args) != 3 {
			return nil, errors.Wrapf(types.ErrUsage, "%s takes a file and a checksum", types.OneFileFlag)
		}
		return &Invocation{Mode: OneFile, Files: []string{args[1]}, Checksum: args[2]}, nil
	}

	if len(args) != 2 {
		return nil, errors.Wrapf(types.ErrUsage, "expected two files, got %d arguments", len(args))
	}

	return &Invocation{Mode: TwoFiles, Files: []string{args[0], args[1]}}, nil
}

// Validate makes sure every input file can be opened for reading. The
// checksum is not checked here, a malformed one simply won't match.
func (inv *Invocation) Validate() error {
	for _, f := range inv.Files {
		fi, err := lib.CheckReadable(f)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"path": f, "size": humanize.Bytes(uint64(fi.Size()))}).Debugf("file is readable")
	}

	return nil
}

type Options struct {
	Launcher    digest.Launcher
	VerifyBytes bool
	// Progress receives the byte verification progress bar. Nil disables
	// it.
	Progress io.Writer
}

type FileDigest struct {
	Path   string `json:"path" yaml:"path"`
	Digest string `json:"digest" yaml:"digest"`
}

// Result describes a finished comparison.
type Result struct {
	Mode          Mode          `json:"mode" yaml:"mode"`
	Files         []FileDigest  `json:"files" yaml:"files"`
	Checksum      string        `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	BytesVerified bool          `json:"bytes_verified,omitempty" yaml:"bytes_verified,omitempty"`
	Outcome       types.Outcome `json:"outcome" yaml:"outcome"`
}

// Run validates the invocation's files, computes their digests and compares
// them. A mismatch is a successful run; the error is only set for
// operational failures.
func Run(ctx context.Context, inv *Invocation, opts Options) (*Result, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if opts.Launcher == nil {
		return nil, errors.Errorf("no digest launcher configured")
	}

	log.WithFields(log.Fields{"mode": inv.Mode, "files": strings.Join(inv.Files, ",")}).Debugf("comparing")

	c := digest.NewCoordinator(opts.Launcher)
	if inv.Mode == OneFile {
		return checkOneFile(ctx, c, inv)
	}

	return checkTwoFiles(ctx, c, inv, opts)
}

func checkOneFile(ctx context.Context, c *digest.Coordinator, inv *Invocation) (*Result, error) {
	sum, err := c.ComputeSingle(ctx, inv.Files[0])
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"path": inv.Files[0], "digest": inv.Checksum}).Debugf("expected digest")

	res := &Result{
		Mode:     inv.Mode,
		Files:    []FileDigest{{Path: inv.Files[0], Digest: sum}},
		Checksum: inv.Checksum,
		Outcome:  Compare(sum, inv.Checksum),
	}

	if res.Outcome == types.Match {
		log.Debugf("File matches")
	} else {
		log.Debugf("File does not match")
	}

	return res, nil
}

func checkTwoFiles(ctx context.Context, c *digest.Coordinator, inv *Invocation, opts Options) (*Result, error) {
	a, b, err := c.ComputeTwo(ctx, inv.Files[0], inv.Files[1])
	if err != nil {
		return nil, err
	}

	res := &Result{
		Mode: inv.Mode,
		Files: []FileDigest{
			{Path: inv.Files[0], Digest: a},
			{Path: inv.Files[1], Digest: b},
		},
		Outcome: Compare(a, b),
	}

	if res.Outcome == types.Match && opts.VerifyBytes {
		same, err := VerifyBytes(inv.Files[0], inv.Files[1], opts.Progress)
		if err != nil {
			return nil, err
		}

		res.BytesVerified = true
		if !same {
			log.Errorf("%s and %s differ but share digest %s", inv.Files[0], inv.Files[1], a)
			res.Outcome = types.Mismatch
		}
	}

	if res.Outcome == types.Match {
		log.Debugf("Files are the same")
	} else {
		log.Debugf("Files are not the same")
	}

	return res, nil
}
