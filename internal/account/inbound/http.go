package inbound

import (
	"context"

	"github.com/lukrlier/notabene/internal/account/usecase"
	"github.com/lukrlier/notabene/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Activate(ctx context.Context, key string) error
	PublicUsers(ctx context.Context, in usecase.PublicUsersInput) (*usecase.PublicUsersOutput, error)
	Authorities(ctx context.Context) ([]string, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/register", end.Register)
	r.GET("/api/activate", end.Activate)

	r.GET("/api/users", end.PublicUsers)
	r.GET("/api/authorities", end.Authorities)
}
