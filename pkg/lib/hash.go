package lib

import (
	_ "crypto/sha512"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
)

// HashReader returns the lowercase hex SHA-512 of everything r yields.
func HashReader(r io.Reader) (string, error) {
	d, err := digest.SHA512.FromReader(r)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return d.Encoded(), nil
}
