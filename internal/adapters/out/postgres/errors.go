package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// transientCodes are SQLSTATEs raised when the server side of the connection
// went away or a cached statement no longer matches the schema.
var transientCodes = map[string]struct{}{
	"26000": {}, // invalid_sql_statement_name: prepared statement does not exist
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
	"0A000": {}, // feature_not_supported: "cached plan must not change result type"
}

// ErrorClassifier implements ports.TransientErrorClassifier for PostgreSQL.
type ErrorClassifier struct{}

func (ErrorClassifier) IsTransient(err error) bool {
	return IsTransientError(err)
}

// IsTransientError reports whether err means the connection (not the data) is at fault:
// connection exceptions (class 08), server shutdowns, stale prepared statements,
// driver.ErrBadConn, unexpected EOF and network errors.
func IsTransientError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code, pgErr.Message)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isTransientCode(code, message string) bool {
	if strings.HasPrefix(code, "08") {
		return true
	}
	if _, ok := transientCodes[code]; !ok {
		return false
	}
	if code == "0A000" {
		return strings.Contains(message, "cached plan")
	}
	return true
}
