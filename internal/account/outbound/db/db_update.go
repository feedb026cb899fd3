package db

import (
	"context"
	"time"

	"github.com/lukrlier/notabene/internal/account/entity"
)

// ActivateUser marks the owner of key as activated and clears the key, so a
// key works once.
func (s *DB) ActivateUser(ctx context.Context, key string, at time.Time) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "ActivateUser")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, `
		UPDATE account_user
		SET activated = TRUE, activation_key = NULL, activated_at = $2
		WHERE activation_key = $1 AND NOT activated
		RETURNING id, login, email, lang_key, activated, created_at, activated_at`,
		key, at,
	).Scan(&u.ID, &u.Login, &u.Email, &u.LangKey, &u.Activated, &u.CreatedAt, &u.ActivatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}
