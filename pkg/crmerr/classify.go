package crmerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUndefinedTable  = "42P01"
	sqlStateUndefinedColumn = "42703"
)

var (
	tableMissingMarkers    = []string{"PGRST205", `relation "public.contacts" does not exist`, `relation "contacts" does not exist`, "could not find the table"}
	priorityColumnMarkers  = []string{"priority", "is_priority", "status"}
	actionTagColumnMarkers = []string{"action_tag", "Could not find the 'action_tag' column"}
)

// Classify turns a backend failure into KindBackendUnavailable (schema drift)
// or KindBackendError. Errors that already carry a Kind are returned as-is.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	if issue := DetectSchemaIssue(err); issue != SchemaNone {
		return &Error{Kind: KindBackendUnavailable, Schema: issue, Op: op, Err: err}
	}
	return &Error{Kind: KindBackendError, Op: op, Err: err}
}

// DetectSchemaIssue inspects SQLSTATE codes first and falls back to message
// markers for proxies (e.g. PostgREST) that only forward text.
func DetectSchemaIssue(err error) SchemaIssue {
	if err == nil {
		return SchemaNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUndefinedTable:
			return SchemaTableMissing
		case sqlStateUndefinedColumn:
			if issue := issueFromMessage(pgErr.Message); issue != SchemaNone && issue != SchemaTableMissing {
				return issue
			}
		}
	}

	return issueFromMessage(err.Error())
}

func issueFromMessage(msg string) SchemaIssue {
	switch {
	case containsAny(msg, tableMissingMarkers):
		return SchemaTableMissing
	case containsAny(msg, priorityColumnMarkers):
		return SchemaPriorityColumnsMissing
	case containsAny(msg, actionTagColumnMarkers):
		return SchemaActionTagColumnMissing
	}
	return SchemaNone
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
