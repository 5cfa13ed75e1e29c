package query

import (
	"fmt"
	"regexp"
)

// ValidationError reports a structural problem in a statement, caught
// before any I/O happens.
type ValidationError struct {
	Stmt string // statement kind, e.g. "insert"
	Rule string // the violated rule
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stmt, e.Rule)
}

func validationError(stmt, rule string) error {
	return &ValidationError{Stmt: stmt, Rule: rule}
}

func validationErrorf(stmt, format string, args ...any) error {
	return &ValidationError{Stmt: stmt, Rule: fmt.Sprintf(format, args...)}
}

// identRe matches plain SQL identifiers, optionally schema-qualified.
// Quoting at compile time makes injection through identifiers impossible,
// but rejecting junk here gives the caller a better error earlier.
var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*(\.[a-zA-Z_][a-zA-Z0-9_$]*)?$`)

func validateIdent(stmt, name string) error {
	if name == "" {
		return validationError(stmt, "identifier must not be empty")
	}
	if len(name) > 128 {
		return validationErrorf(stmt, "identifier %q exceeds 128 characters", name)
	}
	if !identRe.MatchString(name) {
		return validationErrorf(stmt, "invalid identifier %q", name)
	}
	return nil
}

// validateExpr walks a predicate tree checking the invariants the
// compilers rely on, notably that IN lists are non-empty.
func validateExpr(stmt string, e Expr) error {
	switch ex := e.(type) {
	case nil:
		return nil
	case ColumnExpr:
		return validateIdent(stmt, ex.Column.Name)
	case BindExpr:
		return nil
	case BinaryExpr:
		if ex.Op == OpIn {
			if list, ok := ex.Right.(ListExpr); ok && len(list.Values) == 0 {
				return validationError(stmt, "IN list must not be empty")
			}
		}
		if err := validateExpr(stmt, ex.Left); err != nil {
			return err
		}
		return validateExpr(stmt, ex.Right)
	case UnaryExpr:
		return validateExpr(stmt, ex.Expr)
	case FuncExpr:
		for _, arg := range ex.Args {
			if err := validateExpr(stmt, arg); err != nil {
				return err
			}
		}
		return nil
	case ListExpr:
		for _, v := range ex.Values {
			if err := validateExpr(stmt, v); err != nil {
				return err
			}
		}
		return nil
	case SubqueryExpr:
		return ex.Query.Validate()
	case ExistsExpr:
		return ex.Subquery.Validate()
	default:
		return validationErrorf(stmt, "unknown expression type %T", e)
	}
}
