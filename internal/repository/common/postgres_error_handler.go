package common

import (
	"errors"
	"strings"

	apperrors "github.com/Taichi-iskw/yt-topics/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "23514": // CHECK_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "data violates check constraint")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found (run `yttopics db migrate`)")

	case "42703": // UNDEFINED_COLUMN
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		message := operation + " (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

func handleUniqueViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "videos_pkey"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "video with this ID already exists")
	case strings.Contains(constraintName, "topic_segments") && strings.Contains(constraintName, "segment_index"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "topic segment index already used for this video")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

func handleForeignKeyViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	if strings.Contains(pgErr.ConstraintName, "video_id") {
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced video does not exist")
	}
	return apperrors.Wrap(pgErr, apperrors.CodeDependency, "referenced resource does not exist")
}
