package account

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukrlier/notabene/internal/account/inbound"
	"github.com/lukrlier/notabene/internal/account/outbound/db"
	"github.com/lukrlier/notabene/internal/account/outbound/mq"
	"github.com/lukrlier/notabene/internal/account/usecase"
	"github.com/lukrlier/notabene/internal/pkg/clock"
	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/goroutine"
	"github.com/lukrlier/notabene/internal/pkg/hash"
	"github.com/lukrlier/notabene/internal/pkg/idempotency"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/locale"
	"github.com/lukrlier/notabene/internal/pkg/messaging"
	"github.com/lukrlier/notabene/internal/pkg/router"
	"github.com/lukrlier/notabene/internal/pkg/uid"
	"github.com/lukrlier/notabene/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Locale      *locale.Matcher            `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Locale:        dep.Locale,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
