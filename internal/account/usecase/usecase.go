package usecase

import (
	"context"
	"time"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/clock"
	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/goroutine"
	"github.com/lukrlier/notabene/internal/pkg/hash"
	"github.com/lukrlier/notabene/internal/pkg/idempotency"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/uid"
	"github.com/lukrlier/notabene/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserRegisteredEvent struct {
	UserID        int64
	Login         string
	Email         string
	LangKey       string
	ActivationKey string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoDB interface {
	GetUserByLogin(ctx context.Context, login string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	ListPublicUsers(ctx context.Context, filter entity.PublicUserFilter) ([]entity.PublicUser, int64, error)
	ListAuthorities(ctx context.Context) ([]string, error)

	CreateRegistration(ctx context.Context, user entity.User, replaceIDs []int64) error
	ActivateUser(ctx context.Context, key string, at time.Time) (*entity.User, error)
}

type languageMatcher interface {
	Match(key string) string
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	locale        languageMatcher
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Locale        languageMatcher
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		locale:        dep.Locale,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}
