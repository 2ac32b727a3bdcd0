package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a catalog was rejected.
type ErrorKind int

const (
	KindSource ErrorKind = iota
	KindEmpty
	KindMissingFilename
	KindDuplicateFilename
	KindInvalidAngle
	KindUnrealizable
)

func (k ErrorKind) String() string {
	switch k {
	case KindSource:
		return "SOURCE"
	case KindEmpty:
		return "EMPTY"
	case KindMissingFilename:
		return "MISSING_FILENAME"
	case KindDuplicateFilename:
		return "DUPLICATE_FILENAME"
	case KindInvalidAngle:
		return "INVALID_ANGLE"
	case KindUnrealizable:
		return "UNREALIZABLE"
	default:
		return "UNKNOWN"
	}
}

// Sentinels matched by CatalogError.Is, so callers can use errors.Is.
var (
	ErrEmpty             = errors.New("catalog is empty")
	ErrMissingFilename   = errors.New("entry has no filename")
	ErrDuplicateFilename = errors.New("duplicate filename")
	ErrInvalidAngle      = errors.New("angle is not a finite number")
	ErrUnrealizable      = errors.New("ear angles do not form a reachable clock position")
)

var kindSentinels = map[ErrorKind]error{
	KindEmpty:             ErrEmpty,
	KindMissingFilename:   ErrMissingFilename,
	KindDuplicateFilename: ErrDuplicateFilename,
	KindInvalidAngle:      ErrInvalidAngle,
	KindUnrealizable:      ErrUnrealizable,
}

// CatalogError is fatal and only produced while loading. The process must not
// serve requests after one.
type CatalogError struct {
	Kind     ErrorKind
	Filename string
	Index    int
	Message  string
	Cause    error
}

func (e *CatalogError) Error() string {
	s := fmt.Sprintf("catalog [%s]", e.Kind)
	if e.Filename != "" {
		s += fmt.Sprintf(" %q", e.Filename)
	} else if e.Index >= 0 {
		s += fmt.Sprintf(" entry #%d", e.Index)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *CatalogError) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for this error's kind.
func (e *CatalogError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

func newError(kind ErrorKind, index int, filename, format string, args ...any) *CatalogError {
	return &CatalogError{
		Kind:     kind,
		Filename: filename,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsKind checks whether err is a CatalogError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
