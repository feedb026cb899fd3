package usecase

import (
	"context"
	"log/slog"

	"github.com/lukrlier/notabene/internal/pkg/goerror"
)

func (s *Usecase) Authorities(ctx context.Context) ([]string, error) {
	ctx, span := s.startSpan(ctx, "Authorities")
	defer span.End()

	names, err := s.repoDB.ListAuthorities(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list authorities", "error", err)
		return nil, goerror.NewServer(err)
	}

	return names, nil
}
