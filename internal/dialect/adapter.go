// Package dialect converts the report formats of the supported test tools
// into api.ResultRecord values.
//
// Each tool format is handled by an Adapter registered by name in a Registry.
// Parsing through the Registry never fails: undecodable content and unknown
// framework names produce api.NewEmptyResult, with an optional Diagnostic
// describing what went wrong.
package dialect

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Adapter decodes the raw output of one test tool. Implementations must be
// pure functions of their input: no I/O, no clock, no shared state.
type Adapter interface {
	// Name is the framework name the adapter is registered under.
	Name() string

	// Parse decodes content. On failure the returned record is ignored,
	// unless the error is a *PartialDataError.
	Parse(content []byte, testType api.TestType) (api.ResultRecord, error)
}

var (
	// ErrDecode reports content that does not match the claimed dialect.
	ErrDecode = errors.New("content does not match dialect")

	// ErrUnsupportedDialect reports a framework name with no adapter.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
)

// PartialDataError is returned together with a usable record when fields
// the adapter relies on are absent. Missing values are reported as zero.
type PartialDataError struct {
	Missing []string
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", "))
}

// DiagnosticKind classifies a parse problem.
type DiagnosticKind string

const (
	DiagnosticDecode      DiagnosticKind = "DecodeError"
	DiagnosticUnsupported DiagnosticKind = "UnsupportedDialectError"
	DiagnosticPartialData DiagnosticKind = "PartialDataWarning"
)

// Diagnostic describes why a report degraded to an empty or partial record.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Framework  string         `json:"framework"`
	TestType   api.TestType   `json:"testType"`
	SourcePath string         `json:"sourcePath,omitempty"`
	Err        error          `json:"-"`
}

func (d *Diagnostic) Error() string {
	if d.SourcePath != "" {
		return fmt.Sprintf("%s: %s/%s (%s): %v", d.Kind, d.Framework, d.TestType, d.SourcePath, d.Err)
	}
	return fmt.Sprintf("%s: %s/%s: %v", d.Kind, d.Framework, d.TestType, d.Err)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Message returns the underlying error text.
func (d *Diagnostic) Message() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}
