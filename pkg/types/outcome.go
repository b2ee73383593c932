package types

// Process exit statuses. They are part of the command line contract and must
// not change.
const (
	ExitMatch    = 0
	ExitMismatch = 1
	ExitError    = 2
	// ExitUsage is what a return of -1 from main looks like to the shell.
	ExitUsage = 255
)

// Outcome is the terminal state of one invocation.
type Outcome int

const (
	Match Outcome = iota
	Mismatch
	OperationalError
	UsageError
)

func (o Outcome) String() string {
	switch o {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case OperationalError:
		return "error"
	case UsageError:
		return "usage"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ExitCode returns the process exit status for the outcome.
func (o Outcome) ExitCode() int {
	switch o {
	case Match:
		return ExitMatch
	case Mismatch:
		return ExitMismatch
	case UsageError:
		return ExitUsage
	default:
		return ExitError
	}
}

// OutcomeFor classifies a failed run.
func OutcomeFor(err error) Outcome {
	switch ExitCodeFor(err) {
	case ExitMatch:
		return Match
	case ExitUsage:
		return UsageError
	default:
		return OperationalError
	}
}
