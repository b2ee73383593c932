// Package log routes issame's diagnostics through apex/log. Entries carry
// structured fields (path, op, digest) next to the message, and anything
// logged by other packages through the apex default logger is dropped.
package log

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apex/log"
)

// Fields is the set of structured values attached to an entry.
type Fields = log.Fields

const originField = "origin"

var origin struct{}

func tagged(e *log.Entry) bool {
	v, ok := e.Fields[originField]
	return ok && v == &origin
}

type originFilter struct {
	next log.Handler
}

func (h originFilter) HandleLog(e *log.Entry) error {
	if !tagged(e) {
		return nil
	}

	delete(e.Fields, originField)
	return h.next.HandleLog(e)
}

// FilterNonIssameLogs installs handler as the process-wide log handler,
// dropping entries that weren't emitted through this package.
func FilterNonIssameLogs(handler log.Handler, level log.Level) {
	log.SetHandler(originFilter{handler})
	log.SetLevel(level)
}

// WithFields returns an entry carrying fields. Use it when the message is
// about one file or one step of a computation.
func WithFields(fields Fields) *log.Entry {
	return log.WithFields(fields).WithField(originField, &origin)
}

func Debugf(msg string, v ...interface{}) {
	WithFields(nil).Debugf(msg, v...)
}

func Errorf(msg string, v ...interface{}) {
	WithFields(nil).Errorf(msg, v...)
}

// TextHandler writes one line per entry: optional RFC3339 timestamp, the
// message, then the fields in name order as key=value. Values with spaces
// are quoted.
type TextHandler struct {
	out       io.StringWriter
	timestamp bool
}

func NewTextHandler(out io.StringWriter, timestamp bool) log.Handler {
	return &TextHandler{out, timestamp}
}

func (th *TextHandler) HandleLog(e *log.Entry) error {
	var b strings.Builder

	if th.timestamp {
		b.WriteString(e.Timestamp.Format(time.RFC3339))
		b.WriteByte(' ')
	}

	if e.Level >= log.WarnLevel {
		b.WriteString(strings.ToUpper(e.Level.String()))
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%s", name, fieldValue(e.Fields.Get(name)))
	}

	b.WriteByte('\n')

	_, err := th.out.WriteString(b.String())
	return err
}

func fieldValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if s == "" || strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
