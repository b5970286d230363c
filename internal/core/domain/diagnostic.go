package domain

import "go.trai.ch/zerr"

// Severity is the closed set of diagnostic severities.
type Severity uint8

const (
	// SeverityError fails the compile.
	SeverityError Severity = iota
	// SeverityWarning is informational.
	SeverityWarning
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return zerr.With(zerr.New("unknown severity"), "severity", string(text))
	}
	return nil
}

// Diagnostic is a compiler message anchored at a byte span of a file.
type Diagnostic struct {
	File     FileID
	Span     Span
	Severity Severity
	Message  string
	Hints    []string
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CharRange is a half-open range counted in Unicode characters.
type CharRange [2]int

// DiagnosticReport is a diagnostic as presented to clients: anchored in the main
// file and measured in characters rather than bytes.
type DiagnosticReport struct {
	Range    CharRange `json:"range"    yaml:"range,flow"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Message  string    `json:"message"  yaml:"message"`
	Hints    []string  `json:"hints"    yaml:"hints,omitempty"`
}
