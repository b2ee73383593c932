package types

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, Match.ExitCode())
	assert.Equal(t, 1, Mismatch.ExitCode())
	assert.Equal(t, 2, OperationalError.ExitCode())
	assert.Equal(t, 255, UsageError.ExitCode())

	assert.Equal(t, ExitMatch, ExitCodeFor(nil))
	assert.Equal(t, ExitUsage, ExitCodeFor(errors.Wrapf(ErrUsage, "two files")))
	assert.Equal(t, ExitError, ExitCodeFor(&FileAccessError{Path: "a", Err: os.ErrNotExist}))
	assert.Equal(t, ExitError, ExitCodeFor(&ComputationError{Op: "wait", Target: "a", Err: errors.New("boom")}))

	assert.Equal(t, UsageError, OutcomeFor(ErrUsage))
	assert.Equal(t, OperationalError, OutcomeFor(errors.New("boom")))
}

func TestErrors(t *testing.T) {
	fae := &FileAccessError{Path: "fileA.txt", Err: os.ErrNotExist}
	assert.Contains(t, fae.Error(), "fileA.txt")
	assert.ErrorIs(t, fae, os.ErrNotExist)

	ce := &ComputationError{Op: "read", Target: "fileB.txt", Err: os.ErrClosed}
	assert.Contains(t, ce.Error(), "read")
	assert.Contains(t, ce.Error(), "fileB.txt")
	assert.ErrorIs(t, errors.WithStack(ce), os.ErrClosed)
}

func TestConfigValidate(t *testing.T) {
	good := IssameConfig{DigestCommand: DefaultDigestCommand, Format: FormatJSON}
	assert.NoError(t, good.Validate())

	builtin := IssameConfig{Builtin: true}
	assert.NoError(t, builtin.Validate())

	assert.Error(t, (&IssameConfig{DigestCommand: DefaultDigestCommand, Format: "xml"}).Validate())
	assert.Error(t, (&IssameConfig{DigestCommand: "  "}).Validate())
}

func TestOutcomeText(t *testing.T) {
	text, err := Mismatch.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "mismatch", string(text))
	assert.Equal(t, "unknown", Outcome(42).String())
}
