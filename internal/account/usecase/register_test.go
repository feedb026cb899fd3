package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/goerror"
	"github.com/lukrlier/notabene/internal/pkg/validator"
	"github.com/lukrlier/notabene/internal/shared/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validInput() RegisterInput {
	return RegisterInput{Login: " JHi ", Email: "JHI@pster.net", Password: "jhipster", LangKey: "fr"}
}

func assertProblem(t *testing.T, err error, status int, problemType string) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, status, gerr.StatusCode())
	assert.Equal(t, problemType, gerr.ProblemType())
	return gerr
}

func TestUsecase_Register_Success(t *testing.T) {
	f := newFixture(t)

	f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound).Once()
	f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(nil, goerror.ErrNotFound).Once()

	var created entity.User
	f.db.On("CreateRegistration", mock.Anything, mock.AnythingOfType("entity.User"), []int64(nil)).
		Run(func(args mock.Arguments) { created = args.Get(1).(entity.User) }).
		Return(nil).Once()

	f.mq.On("PublishUserRegistered", mock.Anything, UserRegisteredEvent{
		UserID:        101,
		Login:         "jhi",
		Email:         "jhi@pster.net",
		LangKey:       "fr",
		ActivationKey: "activation-key",
	}).Return(nil).Once()

	require.NoError(t, f.uc.Register(context.Background(), validInput()))
	require.NoError(t, f.routine.Wait())

	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, "jhi", created.Login)
	assert.Equal(t, "jhi@pster.net", created.Email)
	assert.Equal(t, "fr", created.LangKey)
	assert.Equal(t, "activation-key", created.ActivationKey)
	assert.Equal(t, []string{entity.AuthorityUser}, created.Authorities)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.False(t, created.Activated)
	assert.True(t, f.bcrypt.Verify(created.PasswordHash, "jhipster"))
	assert.Equal(t, []string{"account:register:jhi"}, f.lock.keys)

	f.db.AssertExpectations(t)
	f.mq.AssertExpectations(t)
}

func TestUsecase_Register_LangKeyFallsBackToDefault(t *testing.T) {
	f := newFixture(t)

	f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound)
	f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(nil, goerror.ErrNotFound)
	f.db.On("CreateRegistration", mock.Anything, mock.MatchedBy(func(u entity.User) bool {
		return u.LangKey == "en"
	}), []int64(nil)).Return(nil).Once()
	f.mq.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.LangKey = "xx-unknown"
	require.NoError(t, f.uc.Register(context.Background(), in))
	require.NoError(t, f.routine.Wait())

	f.db.AssertExpectations(t)
}

func TestUsecase_Register_ReplacesNonActivated(t *testing.T) {
	f := newFixture(t)

	f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(&entity.User{ID: 7, Login: "jhi"}, nil)
	f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(&entity.User{ID: 8, Email: "jhi@pster.net"}, nil)
	f.db.On("CreateRegistration", mock.Anything, mock.AnythingOfType("entity.User"), []int64{7, 8}).Return(nil).Once()
	f.mq.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.uc.Register(context.Background(), validInput()))
	require.NoError(t, f.routine.Wait())

	f.db.AssertExpectations(t)
}

func TestUsecase_Register_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)

	f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound)
	f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(nil, goerror.ErrNotFound)
	f.db.On("CreateRegistration", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mq.On("PublishUserRegistered", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	require.NoError(t, f.uc.Register(context.Background(), validInput()))
	assert.Error(t, f.routine.Wait())
	f.mq.AssertExpectations(t)
}

func TestUsecase_Register_Rejections(t *testing.T) {
	dbErr := errors.New("db down")

	tests := []struct {
		name       string
		input      func(in *RegisterInput)
		setup      func(f *fixture)
		wantStatus int
		wantType   string
	}{
		{
			name:       "PasswordTooShort",
			input:      func(in *RegisterInput) { in.Password = "abc" },
			wantStatus: 400,
			wantType:   problem.InvalidPasswordType,
		},
		{
			name:       "PasswordTooLong",
			input:      func(in *RegisterInput) { in.Password = strings.Repeat("p", validator.PasswordMaxLength+1) },
			wantStatus: 400,
			wantType:   problem.InvalidPasswordType,
		},
		{
			name:       "InvalidLogin",
			input:      func(in *RegisterInput) { in.Login = "bad login!" },
			wantStatus: 400,
			wantType:   problem.ConstraintViolationType,
		},
		{
			name:       "InvalidEmail",
			input:      func(in *RegisterInput) { in.Email = "nope" },
			wantStatus: 400,
			wantType:   problem.ConstraintViolationType,
		},
		{
			name: "LoginActivated",
			setup: func(f *fixture) {
				f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(&entity.User{ID: 1, Activated: true}, nil)
			},
			wantStatus: 400,
			wantType:   problem.LoginAlreadyUsedType,
		},
		{
			name: "EmailActivated",
			setup: func(f *fixture) {
				f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound)
				f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(&entity.User{ID: 2, Activated: true}, nil)
			},
			wantStatus: 400,
			wantType:   problem.EmailAlreadyUsedType,
		},
		{
			name: "EmailRaceOnInsert",
			setup: func(f *fixture) {
				f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound)
				f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(nil, goerror.ErrNotFound)
				f.db.On("CreateRegistration", mock.Anything, mock.Anything, mock.Anything).Return(goerror.ErrConflict)
			},
			wantStatus: 400,
			wantType:   problem.EmailAlreadyUsedType,
		},
		{
			name:       "ConcurrentRegistration",
			setup:      func(f *fixture) { f.lock.busy = true },
			wantStatus: 409,
			wantType:   problem.DefaultType,
		},
		{
			name:       "LockBackendDown",
			setup:      func(f *fixture) { f.lock.err = errors.New("redis down") },
			wantStatus: 500,
			wantType:   problem.DefaultType,
		},
		{
			name: "LookupFailure",
			setup: func(f *fixture) {
				f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, dbErr)
			},
			wantStatus: 500,
			wantType:   problem.DefaultType,
		},
		{
			name: "InsertFailure",
			setup: func(f *fixture) {
				f.db.On("GetUserByLogin", mock.Anything, "jhi").Return(nil, goerror.ErrNotFound)
				f.db.On("GetUserByEmail", mock.Anything, "jhi@pster.net").Return(nil, goerror.ErrNotFound)
				f.db.On("CreateRegistration", mock.Anything, mock.Anything, mock.Anything).Return(dbErr)
			},
			wantStatus: 500,
			wantType:   problem.DefaultType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			in := validInput()
			if tt.input != nil {
				tt.input(&in)
			}

			err := f.uc.Register(context.Background(), in)
			assertProblem(t, err, tt.wantStatus, tt.wantType)

			require.NoError(t, f.routine.Wait())
			f.mq.AssertNotCalled(t, "PublishUserRegistered", mock.Anything, mock.Anything)
		})
	}
}
