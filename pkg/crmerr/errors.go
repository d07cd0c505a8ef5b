// Package crmerr holds the error taxonomy shared by the contact store, the
// extraction bridge and the HTTP layer.
package crmerr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindBackendUnavailable     Kind = "BACKEND_UNAVAILABLE"
	KindBackendError           Kind = "BACKEND_ERROR"
	KindUpdateFailed           Kind = "UPDATE_FAILED"
	KindDeleteFailed           Kind = "DELETE_FAILED"
	KindExtractionServiceError Kind = "EXTRACTION_SERVICE_ERROR"
	KindExtractionFormatError  Kind = "EXTRACTION_FORMAT_ERROR"
	KindNotFound               Kind = "NOT_FOUND"
	KindValidation             Kind = "VALIDATION"
)

// SchemaIssue narrows KindBackendUnavailable to the migration the user has to run.
type SchemaIssue string

const (
	SchemaNone                   SchemaIssue = ""
	SchemaTableMissing           SchemaIssue = "table_missing"
	SchemaPriorityColumnsMissing SchemaIssue = "priority_columns_missing"
	SchemaActionTagColumnMissing SchemaIssue = "action_tag_column_missing"
)

type Error struct {
	Kind   Kind
	Schema SchemaIssue
	Op     string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Schema != SchemaNone {
		msg += " (" + string(e.Schema) + ")"
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func SchemaOf(err error) SchemaIssue {
	var e *Error
	if errors.As(err, &e) {
		return e.Schema
	}
	return SchemaNone
}
