package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lukrlier/notabene/internal/account/entity"
)

const selectUser = `
SELECT u.id, u.login, u.email, u.password_hash, u.lang_key, u.activated,
       COALESCE(u.activation_key, ''), u.created_at, u.activated_at,
       COALESCE(ARRAY_AGG(ua.authority_name ORDER BY ua.authority_name)
                FILTER (WHERE ua.authority_name IS NOT NULL), '{}')
FROM account_user u
LEFT JOIN account_user_authority ua ON ua.user_id = u.id
`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID,
		&u.Login,
		&u.Email,
		&u.PasswordHash,
		&u.LangKey,
		&u.Activated,
		&u.ActivationKey,
		&u.CreatedAt,
		&u.ActivatedAt,
		&u.Authorities,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) GetUserByLogin(ctx context.Context, login string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByLogin")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx, selectUser+"WHERE u.login = $1 GROUP BY u.id", login))
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	user, err := scanUser(s.conn.QueryRow(ctx, selectUser+"WHERE u.email = $1 GROUP BY u.id", email))
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) ListPublicUsers(ctx context.Context, filter entity.PublicUserFilter) (_ []entity.PublicUser, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListPublicUsers")
	defer func() { s.endSpan(span, err) }()

	var total int64
	if err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM account_user WHERE activated`).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	// SortField and SortDir are whitelisted by the usecase.
	query := fmt.Sprintf(
		`SELECT id, login FROM account_user WHERE activated ORDER BY %s %s, id ASC LIMIT $1 OFFSET $2`,
		orderColumn(filter.SortField), orderDirection(filter.SortDir),
	)

	rows, err := s.conn.Query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PublicUser, error) {
		var u entity.PublicUser
		err := row.Scan(&u.ID, &u.Login)
		return u, err
	})
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	return users, total, nil
}

func (s *DB) ListAuthorities(ctx context.Context) (_ []string, err error) {
	ctx, span := s.startSpan(ctx, "ListAuthorities")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `SELECT name FROM account_authority ORDER BY name`)
	if err != nil {
		return nil, s.mapError(err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, s.mapError(err)
	}

	return names, nil
}

func orderColumn(field string) string {
	if field == "login" {
		return "login"
	}
	return "id"
}

func orderDirection(dir entity.SortDirection) string {
	if dir == entity.SortDesc {
		return "DESC"
	}
	return "ASC"
}
