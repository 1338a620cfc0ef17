package errors

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// FromStore wraps an unclassified store failure. Connection problems map to
// CodeDependency, everything else to CodeInternal. Both carry the Dump as
// details since operators of this tool are trusted.
func FromStore(err error, message string) *Error {
	code := CodeInternal
	if IsConnectivity(err) {
		code = CodeDependency
	}
	return Wrap(code, err, message).WithDetails(Dump(err))
}

// IsConnectivity reports whether err means the store could not be reached.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
