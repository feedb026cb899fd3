package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/goerror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PublicUsersInput struct {
	Page int32 `validate:"gte=0"`
	Size int32 `validate:"gte=0,lte=100"`
	// Sort is "field" or "field,direction", e.g. "login,desc".
	Sort string
}

type PublicUsersOutput struct {
	Users []entity.PublicUser
	Total int64
}

var sortableFields = map[string]struct{}{"id": {}, "login": {}}

func (s *Usecase) PublicUsers(ctx context.Context, in PublicUsersInput) (*PublicUsersOutput, error) {
	ctx, span := s.startSpan(ctx, "PublicUsers")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	filter, err := parsePublicUserFilter(in)
	if err != nil {
		return nil, err
	}

	users, total, err := s.repoDB.ListPublicUsers(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list public users", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PublicUsersOutput{Users: users, Total: total}, nil
}

func parsePublicUserFilter(in PublicUsersInput) (entity.PublicUserFilter, error) {
	size := in.Size
	if size == 0 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	filter := entity.PublicUserFilter{
		Limit:     size,
		Offset:    int64(in.Page) * int64(size),
		SortField: "id",
		SortDir:   entity.SortAsc,
	}

	sortBy := strings.TrimSpace(strings.ToLower(in.Sort))
	if sortBy == "" {
		return filter, nil
	}

	field, dir, hasDir := strings.Cut(sortBy, ",")
	field = strings.TrimSpace(field)
	if _, ok := sortableFields[field]; !ok {
		return filter, goerror.NewInvalidInput(nil, "sort", "sort field must be one of id, login")
	}
	filter.SortField = field

	if hasDir {
		switch entity.SortDirection(strings.TrimSpace(dir)) {
		case entity.SortAsc:
		case entity.SortDesc:
			filter.SortDir = entity.SortDesc
		default:
			return filter, goerror.NewInvalidInput(nil, "sort", "sort direction must be asc or desc")
		}
	}

	return filter, nil
}
