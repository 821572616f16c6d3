package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/askmate/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}

	var raw *pgconn.PgError
	if errors.As(err, &raw) {
		return MapCode(raw.Code)
	}

	return Other
}

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// forumConstraint is the answer for a named constraint of the forum schema.
type forumConstraint struct {
	code    string
	message string
	field   string
}

// forumConstraints covers the constraints declared in the migrations. Names
// not listed here fall back to the generic table/column based messages.
var forumConstraints = map[string]forumConstraint{
	"users_email_key": {
		code:    "USER_ALREADY_EXISTS",
		message: "A user with this email already exists",
		field:   "email",
	},
	"tag_name_key": {
		code:    "TAG_ALREADY_EXISTS",
		message: "A tag with this name already exists",
		field:   "add_new_tag",
	},
	"question_tag_pkey": {
		code:    "TAG_ALREADY_ADDED",
		message: "The question already has this tag",
	},
	"comment_single_parent_check": {
		code:    "COMMENT_INVALID",
		message: "A comment belongs to exactly one question or answer",
	},
	"answer_question_id_fkey": {
		code:    "QUESTION_NOT_FOUND",
		message: "The question does not exist",
	},
	"comment_question_id_fkey": {
		code:    "QUESTION_NOT_FOUND",
		message: "The question does not exist",
	},
	"comment_answer_id_fkey": {
		code:    "ANSWER_NOT_FOUND",
		message: "The answer does not exist",
	},
	"question_tag_question_id_fkey": {
		code:    "QUESTION_NOT_FOUND",
		message: "The question does not exist",
	},
	"question_tag_tag_id_fkey": {
		code:    "TAG_NOT_FOUND",
		message: "The tag does not exist",
	},
}

// generateErrorCode builds codes like USER_ALREADY_EXISTS or ANSWER_NOT_FOUND.
func generateErrorCode(tableName string, errType Code) string {
	domain := strings.ToUpper(singular(tableName))
	if domain == "" {
		domain = "RECORD"
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entityName, humanizeText(column))
		}
		return fmt.Sprintf("This %s already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value is not allowed", fieldName)
		}
		return fmt.Sprintf("The %s is not valid", entityName)

	case InvalidText:
		return "A value has the wrong format"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers the "<entity>_id" column of a foreign key, then the
// singular table name.
func getEntityName(tableName, columnName string) string {
	column := strings.ToLower(columnName)
	if strings.HasSuffix(column, "_id") {
		return humanizeText(strings.TrimSuffix(column, "_id"))
	}

	if entity := singular(tableName); entity != "" {
		return humanizeText(entity)
	}
	return "record"
}

// singular drops a trailing "s" from plural table names like users.
func singular(table string) string {
	if len(table) > 1 && strings.HasSuffix(strings.ToLower(table), "s") {
		return table[:len(table)-1]
	}
	return table
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var constraintKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation reads the column out of "unique_<table>_<column>"
// or "<table>_<column>_key" constraint names.
func extractColumnForUniqueViolation(constraintName string) string {
	if rest, ok := strings.CutPrefix(constraintName, "unique_"); ok {
		if i := strings.LastIndex(rest, "_"); i >= 0 {
			return rest[i+1:]
		}
	}

	if matches := constraintKeyPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// HandleError converts a database error into an *errs.HTTPError.
//
// HTTP errors pass through untouched. Violations of the forum's own
// constraints get their catalogued message, other violations a message
// derived from the table and column. Serialization failures and deadlocks
// are 503s the browser may retry, pgx.ErrNoRows is a 404 and everything else
// a 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromPgError(ConvertPgError(pgerr))
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func fromPgError(sqlErr *Error) error {
	switch sqlErr.Code {
	case SerializationFailed, DeadlockDetected:
		return errs.NewServiceUnavailableError("The forum is busy, please try again")

	case Other:
		return errs.NewInternalServerError()
	}

	if known, ok := forumConstraints[sqlErr.ConstraintName]; ok {
		code := known.code
		var fields []errs.FieldError
		if known.field != "" {
			fields = []errs.FieldError{{Field: known.field, Error: "is not allowed"}}
		}
		return errs.NewBadRequestError(known.message, true, &code, fields, nil)
	}

	code := generateErrorCode(sqlErr.TableName, sqlErr.Code)
	message := formatUserFriendlyMessage(sqlErr)

	var fields []errs.FieldError
	if sqlErr.Code == NotNullViolation && sqlErr.ColumnName != "" {
		fields = []errs.FieldError{{Field: strings.ToLower(sqlErr.ColumnName), Error: "is required"}}
	}
	return errs.NewBadRequestError(message, true, &code, fields, nil)
}
