package build

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Severe is called when a condition is hit that should never happen during
// correct operation, but that is not itself dangerous enough to justify
// bringing the process down. It always prints to stderr; in a DEBUG build it
// additionally panics so the condition is caught during development and
// testing instead of silently tolerated in the field.
func Severe(v ...interface{}) {
	fmt.Fprintln(os.Stderr, "[SEVERE]", fmt.Sprint(v...))
	if DEBUG {
		panic(fmt.Sprint(v...))
	}
}

// Critical is called when a condition is hit that should never happen
// during correct operation and that the caller cannot safely continue past
// (e.g. a invariant violation discovered mid-transaction). It prints the
// message and a stack trace to stderr, and always panics: unlike Severe,
// there's no well-defined way to keep going.
func Critical(v ...interface{}) {
	fmt.Fprintln(os.Stderr, "[CRITICAL]", fmt.Sprint(v...))
	fmt.Fprintln(os.Stderr, string(debug.Stack()))
	panic(fmt.Sprint(v...))
}

// JoinErrors concatenates the non-nil values of errs into a single error,
// separated by sep. It returns nil if no non-nil errors are passed in.
func JoinErrors(errs []error, sep string) error {
	var s string
	for i, err := range errs {
		if err == nil {
			continue
		}
		if s != "" {
			s += sep
		}
		s += err.Error()
		_ = i
	}
	if s == "" {
		return nil
	}
	return errString(s)
}

type errString string

func (e errString) Error() string { return string(e) }
