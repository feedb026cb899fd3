package inbound

import (
	"net/http"
	"strconv"

	"github.com/lukrlier/notabene/internal/account/usecase"
	"github.com/lukrlier/notabene/internal/pkg/router"
)

const headerTotalCount = "X-Total-Count"

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
		LangKey:  req.LangKey,
	}); err != nil {
		return nil, err
	}

	return &router.Response{Code: http.StatusCreated}, nil
}

func (h *HTTPEndpoint) Activate(r *router.Request) (any, error) {
	if err := h.uc.Activate(r.Context(), r.GetQuery("key")); err != nil {
		return nil, err
	}

	return &router.Response{Code: http.StatusOK}, nil
}

func (h *HTTPEndpoint) PublicUsers(r *router.Request) (any, error) {
	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.PublicUsers(r.Context(), usecase.PublicUsersInput{
		Page: page,
		Size: size,
		Sort: r.GetQuery("sort"),
	})
	if err != nil {
		return nil, err
	}

	users := make([]PublicUserResponse, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, PublicUserResponse{ID: u.ID, Login: u.Login})
	}

	return &router.Response{
		Header: http.Header{headerTotalCount: {strconv.FormatInt(out.Total, 10)}},
		Data:   users,
	}, nil
}

func (h *HTTPEndpoint) Authorities(r *router.Request) (any, error) {
	return h.uc.Authorities(r.Context())
}
