package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"stackerbuild.io/issame/pkg/compare"
	"stackerbuild.io/issame/pkg/types"
)

func printResult(w io.Writer, res *compare.Result, format string) error {
	switch format {
	case "", types.FormatNone:
		return nil
	case types.FormatText:
		return printText(w, res)
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(res))
	case types.FormatYAML:
		content, err := yaml.Marshal(res)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = w.Write(content)
		return errors.WithStack(err)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// printText writes sha512sum style lines, then the verdict.
func printText(w io.Writer, res *compare.Result) error {
	for _, f := range res.Files {
		if _, err := fmt.Fprintf(w, "%s  %s\n", f.Digest, f.Path); err != nil {
			return errors.WithStack(err)
		}
	}

	if res.Mode == compare.OneFile {
		if _, err := fmt.Fprintf(w, "%s  (expected)\n", res.Checksum); err != nil {
			return errors.WithStack(err)
		}
	}

	verdict := "OK"
	if res.Outcome != types.Match {
		verdict = "FAILED"
	}

	_, err := fmt.Fprintln(w, verdict)
	return errors.WithStack(err)
}
