package transferstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Kind classifies store failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindDuplicateKey is a unique violation on the dedup constraint.
	KindDuplicateKey
	// KindConstraint is any other integrity violation.
	KindConstraint
	// KindConnection is a network or pool failure.
	KindConnection
	// KindCanceled means the context was canceled or its deadline passed.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateKey:
		return "duplicate_key"
	case KindConstraint:
		return "constraint"
	case KindConnection:
		return "connection"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

const sqlStateUniqueViolation = "23505"

// Error is a classified store failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transferstore: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a database error to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		if pgErr.Field('C') == sqlStateUniqueViolation && pgErr.Field('n') == DedupConstraint {
			return KindDuplicateKey
		}
		if pgErr.IntegrityViolation() {
			return KindConstraint
		}
		return KindUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return KindConnection
	}

	return KindUnknown
}

// IsKind reports whether err is a store Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var storeErr *Error
	return errors.As(err, &storeErr) && storeErr.Kind == kind
}

func wrap(op string, err error) error {
	return &Error{Kind: Classify(err), Op: op, Err: err}
}
