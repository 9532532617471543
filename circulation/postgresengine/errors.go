package postgresengine

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-circulation-go/circulation"
)

var (
	ErrNilDatabaseConnection  = errors.New("database connection must not be nil")
	ErrBuildQueryFailed       = errors.New("building sql query failed")
	ErrQueryingFailed         = errors.New("querying database failed")
	ErrScanningDBRowFailed    = errors.New("scanning db row failed")
	ErrExecFailed             = errors.New("executing sql statement failed")
	ErrGettingRowsAffected    = errors.New("getting rows affected failed")
	ErrBeginTransactionFailed = errors.New("beginning transaction failed")
	ErrCommitFailed           = errors.New("committing transaction failed")
	ErrApplySchemaFailed      = errors.New("applying schema failed")
)

const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"

	constraintCardsReaderID       = "cards_reader_id_key"
	constraintCopiesEditionNumber = "copies_edition_id_copy_number_key"
	constraintActiveCopyDetail    = "borrow_details_active_copy_idx"
)

// sqlStateAndConstraint extracts the SQLSTATE and constraint name from pgx or lib/pq errors.
func sqlStateAndConstraint(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}

	return "", ""
}

// classifyDBError maps driver errors onto the circulation error taxonomy.
// Errors it does not recognize are returned as they are.
func classifyDBError(err error) error {
	code, constraint := sqlStateAndConstraint(err)

	switch code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return errors.Join(circulation.ErrConcurrencyConflict, err)

	case sqlStateForeignKeyViolation:
		return errors.Join(circulation.ErrNotFound, err)

	case sqlStateUniqueViolation:
		switch constraint {
		case constraintCardsReaderID:
			return errors.Join(circulation.ErrCardAlreadyExists, err)
		case constraintCopiesEditionNumber:
			return errors.Join(circulation.ErrCopyAlreadyExists, err)
		case constraintActiveCopyDetail:
			return errors.Join(circulation.ErrCopyAlreadyReserved, err)
		}
	}

	return err
}
