package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/goerror"
	"github.com/lukrlier/notabene/internal/shared/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Activate(t *testing.T) {
	f := newFixture(t)
	f.db.On("ActivateUser", mock.Anything, "key-1", testNow).Return(&entity.User{ID: 1, Login: "jhi", Activated: true}, nil).Once()

	require.NoError(t, f.uc.Activate(context.Background(), " key-1 "))
	f.db.AssertExpectations(t)
}

func TestUsecase_Activate_Failures(t *testing.T) {
	f := newFixture(t)
	f.db.On("ActivateUser", mock.Anything, "unknown", testNow).Return(nil, goerror.ErrNotFound)
	f.db.On("ActivateUser", mock.Anything, "broken", testNow).Return(nil, errors.New("db down"))

	gerr := assertProblem(t, f.uc.Activate(context.Background(), ""), 400, problem.DefaultType)
	assert.Equal(t, "No user was found for this activation key", gerr.Msg())

	assertProblem(t, f.uc.Activate(context.Background(), "unknown"), 400, problem.DefaultType)
	assertProblem(t, f.uc.Activate(context.Background(), "broken"), 500, problem.DefaultType)
}
