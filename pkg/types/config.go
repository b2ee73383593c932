package types

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultDigestCommand is run with the file path appended when no other
// command is configured.
const DefaultDigestCommand = "sha512sum"

// OneFileFlag selects the file-vs-checksum mode when it is the first
// positional argument. It is matched case-insensitively.
const OneFileFlag = "--one-file"

// Output formats accepted by --format.
const (
	FormatNone = "none"
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// IssameConfig is a struct that contains the global issame options, gathered
// from flags and the environment.
type IssameConfig struct {
	Debug         bool
	DigestCommand string
	Builtin       bool
	VerifyBytes   bool
	Progress      bool
	Format        string
}

// Validate checks option values that the flag parser can't check for us.
func (ic *IssameConfig) Validate() error {
	switch ic.Format {
	case "", FormatNone, FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Errorf("unknown output format %q", ic.Format)
	}

	if !ic.Builtin && strings.TrimSpace(ic.DigestCommand) == "" {
		return errors.Errorf("empty digest command")
	}

	return nil
}
