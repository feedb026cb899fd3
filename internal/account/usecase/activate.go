package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lukrlier/notabene/internal/pkg/goerror"
	"github.com/lukrlier/notabene/internal/shared/problem"
)

func (s *Usecase) Activate(ctx context.Context, key string) error {
	ctx, span := s.startSpan(ctx, "Activate")
	defer span.End()

	notFound := goerror.NewProblem("No user was found for this activation key", goerror.CodeBadRequest, problem.DefaultType)

	key = strings.TrimSpace(key)
	if key == "" {
		return notFound
	}

	user, err := s.repoDB.ActivateUser(ctx, key, s.clock.Now())
	if errors.Is(err, goerror.ErrNotFound) {
		return notFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo activate user", "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user activated", "user_id", user.ID, "login", user.Login)
	return nil
}
