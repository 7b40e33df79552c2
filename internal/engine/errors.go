package engine

import "fmt"

// ErrorKind classifies view/snapshot failures so callers can map them to
// HTTP statuses without inspecting message strings.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindEmptyData
	KindSchema
	KindLookup
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindEmptyData:
		return "empty-data"
	case KindSchema:
		return "schema"
	case KindLookup:
		return "lookup"
	case KindConfig:
		return "config"
	}
	return "unknown"
}

// ViewError is the single descriptive failure type surfaced by the
// engine. One mount's failure never blocks another: the API layer
// renders each one locally.
type ViewError struct {
	Kind    ErrorKind
	Message string
}

func (e *ViewError) Error() string { return e.Message }

func errf(kind ErrorKind, format string, args ...any) *ViewError {
	return &ViewError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
