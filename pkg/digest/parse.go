package digest

import (
	_ "crypto/sha512"
	"strings"

	godigest "github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
)

// ParseLine extracts the digest from one line of sha512sum style output:
// the hex digest, optionally followed by the file name. coreutils prefixes
// the line with a backslash when it had to escape the file name.
func ParseLine(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", errors.Errorf("empty digest line")
	}

	sum := strings.TrimPrefix(fields[0], `\`)
	if err := godigest.SHA512.Validate(sum); err != nil {
		return "", errors.Wrapf(err, "bad sha512 digest %q", sum)
	}

	return sum, nil
}
