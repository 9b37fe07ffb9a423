package postgres

import (
	apperrors "asset-service/pkg/errors"
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE class prefixes. Class 23 is integrity constraint violation;
// 08, 53 and 57 cover connection failures, resource exhaustion and
// server shutdown, all of which a caller may safely retry.
const (
	sqlStateClassConstraint   = "23"
	sqlStateClassConnection   = "08"
	sqlStateClassResources    = "53"
	sqlStateClassIntervention = "57"
)

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, sqlStateClassConstraint)
}

func isConnectivityFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, sqlStateClassConnection) ||
			strings.HasPrefix(pgErr.Code, sqlStateClassResources) ||
			strings.HasPrefix(pgErr.Code, sqlStateClassIntervention)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// translateError maps a backing-store failure into the shared outcome
// taxonomy. Constraint violations become non-retryable validation
// failures; connectivity failures stay retryable.
func translateError(msg string, err error) error {
	switch {
	case isConstraintViolation(err):
		return apperrors.Validation("", errConstraintViolatedFmt)
	case isConnectivityFailure(err):
		return apperrors.Persistence(msg, true, err)
	default:
		return apperrors.Persistence(msg, false, err)
	}
}
