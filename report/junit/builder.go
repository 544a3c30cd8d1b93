package junit

import (
	"fmt"
	"strings"

	"github.com/securego/cwelookup"
)

// newTestsuite starts the testsuite of one source
func newTestsuite(source string) *Testsuite {
	return &Testsuite{Name: source}
}

// newFailure describes a failed lookup, or returns nil for any other outcome
func newFailure(r cwelookup.Result) *Failure {
	if r.Status != cwelookup.StatusFailed {
		return nil
	}
	return &Failure{
		Message: r.Message,
		Text:    fmt.Sprintf("[%s] %s (key: %s, status: %s)", r.Source, r.ID, r.Key, r.Status),
	}
}

// newTestcase maps one identifier to a testcase named after it and classed
// by its kind. The weaknesses of a successful lookup go to system-out.
func newTestcase(r cwelookup.Result) *Testcase {
	testcase := &Testcase{
		Name:      r.ID,
		Classname: r.Kind.String(),
		Failure:   newFailure(r),
	}
	if testcase.Failure == nil {
		testcase.SystemOut = strings.Join(r.Values(), "\n")
	}
	return testcase
}
