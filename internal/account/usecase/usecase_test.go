package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/clock"
	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/goroutine"
	"github.com/lukrlier/notabene/internal/pkg/hash"
	"github.com/lukrlier/notabene/internal/pkg/idempotency"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/locale"
	"github.com/lukrlier/notabene/internal/pkg/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type mockRepoDB struct {
	mock.Mock
}

func (m *mockRepoDB) GetUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	args := m.Called(ctx, login)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockRepoDB) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockRepoDB) ListPublicUsers(ctx context.Context, filter entity.PublicUserFilter) ([]entity.PublicUser, int64, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]entity.PublicUser)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepoDB) ListAuthorities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockRepoDB) CreateRegistration(ctx context.Context, user entity.User, replaceIDs []int64) error {
	return m.Called(ctx, user, replaceIDs).Error(0)
}

func (m *mockRepoDB) ActivateUser(ctx context.Context, key string, at time.Time) (*entity.User, error) {
	args := m.Called(ctx, key, at)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type mockRepoMessaging struct {
	mock.Mock
}

func (m *mockRepoMessaging) PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error {
	return m.Called(ctx, msg).Error(0)
}

// fakeLock runs fn inline unless busy is set.
type fakeLock struct {
	busy bool
	err  error
	keys []string
}

func (f *fakeLock) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeLock) Release(context.Context, string) error { return nil }

func (f *fakeLock) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return f.err
	}
	if f.busy {
		return idempotency.ErrAlreadyInProgress
	}
	return fn(ctx)
}

type seqID struct{ next int64 }

func (s *seqID) Generate() int64 { s.next++; return s.next }

type fixedString string

func (f fixedString) Generate() string { return string(f) }

type fixture struct {
	uc      *Usecase
	db      *mockRepoDB
	mq      *mockRepoMessaging
	lock    *fakeLock
	routine *goroutine.Manager
	bcrypt  hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  account:\n    register_lock_seconds: 30\n"))
	require.NoError(t, err)

	matcher, err := locale.NewMatcher([]string{"en", "fr"})
	require.NoError(t, err)

	f := &fixture{
		db:      &mockRepoDB{},
		mq:      &mockRepoMessaging{},
		lock:    &fakeLock{},
		routine: goroutine.NewManager(4),
		bcrypt:  hash.NewBcrypt(4, "pepper"),
	}

	f.uc = New(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.mq,
		Idempotency:   f.lock,
		Validator:     v,
		Config:        cfg,
		Bcrypt:        f.bcrypt,
		UID:           &seqID{next: 100},
		UUID:          fixedString("activation-key"),
		Clock:         clock.Fixed(testNow),
		Locale:        matcher,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.routine,
	})

	return f
}
