package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
//
// Every one of them signals a defect in the archive-generation code or its
// input data. None is transient, so callers should fail the run.
var (
	ErrDuplicateType      = errors.New("duplicate type definition")
	ErrDuplicateAttribute = errors.New("duplicate attribute")
	ErrMissingType        = errors.New("missing type definition")
	ErrMissingName        = errors.New("missing name")
	ErrBlankTypeName      = errors.New("type name contains whitespace")
	ErrDuplicateInstance  = errors.New("duplicate instance")
	ErrUnknownGUID        = errors.New("unknown guid")
	ErrBadDataType        = errors.New("unrecognized data type")
	ErrPatchFailed        = errors.New("unexpected error applying type definition patch")
	ErrPatchMismatch      = errors.New("patch does not match type definition")
)

// ArchiveError describes a violated archive invariant.
// It unwraps to one of the sentinel errors above and, when present, to the
// lower-level cause.
type ArchiveError struct {
	Kind     error  // One of the sentinel errors.
	Op       string // Operation that detected the problem (e.g. "AddEntityDef").
	Category string // Definition or instance kind involved (e.g. "EntityDef").
	ID       string // Offending name, GUID, or compound key.
	Existing string // Value already registered, for collisions.
	New      string // Value being inserted, for collisions.
	Cause    error
}

func (e *ArchiveError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Category != "" {
		fmt.Fprintf(&b, " (%s", e.Category)
		if e.ID != "" {
			fmt.Fprintf(&b, " %q", e.ID)
		}
		b.WriteString(")")
	} else if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	switch {
	case e.Existing != "":
		fmt.Fprintf(&b, ": existing %s, new %s", e.Existing, e.New)
	case e.New != "":
		fmt.Fprintf(&b, ": new %s", e.New)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %T: %v", e.Cause, e.Cause)
	}
	return b.String()
}

// Unwrap exposes both the sentinel kind and the cause to errors.Is/As.
func (e *ArchiveError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// CheckTypeName rejects names containing whitespace.
func CheckTypeName(op, category, name string) error {
	if strings.IndexFunc(name, isSpace) >= 0 {
		return &ArchiveError{Kind: ErrBlankTypeName, Op: op, Category: category, ID: name}
	}
	return nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
