package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/platform/persistence"
)

// Reauthenticator re-checks a user's password before privileged operations
// such as manual balance correction
type Reauthenticator interface {
	Reauthenticate(ctx context.Context, userID uuid.UUID, password string) error
}

// PostgresReauthenticator verifies passwords against the users table
type PostgresReauthenticator struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPostgresReauthenticator creates a password verifier backed by PostgreSQL
func NewPostgresReauthenticator(logger *slog.Logger, db *persistence.PostgresDB) *PostgresReauthenticator {
	return &PostgresReauthenticator{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Reauthenticate loads the stored password hash and compares. Any mismatch or
// unknown user comes back as ErrReauthenticationFailed; the caller never
// learns which.
func (a *PostgresReauthenticator) Reauthenticate(ctx context.Context, userID uuid.UUID, password string) error {
	query := `SELECT password_hash FROM users WHERE id = $1`

	var stored string
	err := a.querier.QueryRow(ctx, query, userID).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrReauthenticationFailed
		}
		a.logger.Error("Failed to load password hash", "user_id", userID.String(), "error", err)
		return fmt.Errorf("failed to load password hash: %w", err)
	}

	if !CheckPassword(password, stored) {
		a.logger.Warn("Password re-authentication failed", "user_id", userID.String())
		return shared.ErrReauthenticationFailed
	}

	return nil
}
