package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/lukrlier/notabene/internal/account/entity"
)

// CreateRegistration deletes the non-activated accounts in replaceIDs and
// inserts user with its authorities, all in one transaction.
func (s *DB) CreateRegistration(ctx context.Context, user entity.User, replaceIDs []int64) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if len(replaceIDs) > 0 {
		if _, err = tx.Exec(ctx,
			`DELETE FROM account_user WHERE id = ANY($1) AND NOT activated`, replaceIDs,
		); err != nil {
			return s.mapError(err)
		}
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO account_user (id, login, email, password_hash, lang_key, activated, activation_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`,
		user.ID, user.Login, user.Email, user.PasswordHash, user.LangKey, user.Activated, user.ActivationKey, user.CreatedAt,
	); err != nil {
		return s.mapError(err)
	}

	batch := &pgx.Batch{}
	for _, name := range user.Authorities {
		batch.Queue(`INSERT INTO account_user_authority (user_id, authority_name) VALUES ($1, $2)`, user.ID, name)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
