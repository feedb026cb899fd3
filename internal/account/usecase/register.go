package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/pkg/goerror"
	"github.com/lukrlier/notabene/internal/pkg/idempotency"
	"github.com/lukrlier/notabene/internal/pkg/validator"
	"github.com/lukrlier/notabene/internal/shared/problem"
)

type RegisterInput struct {
	Login    string `validate:"required,min=1,max=50,login"`
	Email    string `validate:"required,min=5,max=254,email"`
	Password string `validate:"required,password"`
	LangKey  string `validate:"required,min=2,max=10"`
}

var (
	errLoginAlreadyUsed = goerror.NewProblem("Login name already used!", goerror.CodeBadRequest, problem.LoginAlreadyUsedType)
	errEmailAlreadyUsed = goerror.NewProblem("Email is already in use!", goerror.CodeBadRequest, problem.EmailAlreadyUsedType)
)

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Login = strings.TrimSpace(strings.ToLower(in.Login))
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.LangKey = s.locale.Match(in.LangKey)

	if !validator.IsPasswordLengthValid(in.Password) {
		return goerror.NewInvalidPassword()
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.idemp.Exec(ctx, "account:register:"+in.Login, func(ctx context.Context) error {
		return s.register(ctx, in)
	}, idempotency.WithLockDuration(s.cfg.GetSecond("modules.account.register_lock_seconds")))
	if errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.WarnContext(ctx, "registration already in progress", "login", in.Login)
		return goerror.NewBusiness("Registration already in progress", goerror.CodeConflict)
	}

	var gerr *goerror.Error
	if err != nil && !errors.As(err, &gerr) {
		slog.ErrorContext(ctx, "failed to acquire registration lock", "login", in.Login, "error", err)
		return goerror.NewServer(err)
	}

	return err
}

func (s *Usecase) register(ctx context.Context, in RegisterInput) error {
	var replaceIDs []int64

	existing, err := s.repoDB.GetUserByLogin(ctx, in.Login)
	switch {
	case err == nil && existing.Activated:
		return errLoginAlreadyUsed
	case err == nil:
		replaceIDs = append(replaceIDs, existing.ID)
	case !errors.Is(err, goerror.ErrNotFound):
		slog.ErrorContext(ctx, "failed to repo get user by login", "login", in.Login, "error", err)
		return goerror.NewServer(err)
	}

	existing, err = s.repoDB.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.Activated:
		return errEmailAlreadyUsed
	case err == nil:
		replaceIDs = append(replaceIDs, existing.ID)
	case !errors.Is(err, goerror.ErrNotFound):
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	user := entity.User{
		ID:            s.uid.Generate(),
		Login:         in.Login,
		Email:         in.Email,
		LangKey:       in.LangKey,
		PasswordHash:  string(hashedPassword),
		ActivationKey: s.uuid.Generate(),
		Authorities:   []string{entity.AuthorityUser},
		CreatedAt:     s.clock.Now(),
	}

	if err := s.repoDB.CreateRegistration(ctx, user, replaceIDs); err != nil {
		// the login is locked, so a unique violation here comes from the email
		if errors.Is(err, goerror.ErrConflict) {
			return errEmailAlreadyUsed
		}
		slog.ErrorContext(ctx, "failed to repo create registration", "login", user.Login, "error", err)
		return goerror.NewServer(err)
	}

	if len(replaceIDs) > 0 {
		slog.InfoContext(ctx, "replaced non activated accounts", "login", user.Login, "user_ids", replaceIDs)
	}

	evt := UserRegisteredEvent{
		UserID:        user.ID,
		Login:         user.Login,
		Email:         user.Email,
		LangKey:       user.LangKey,
		ActivationKey: user.ActivationKey,
	}
	started := s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishUserRegistered(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish user registered", "user_id", evt.UserID, "error", err)
			return err
		}
		return nil
	})
	if !started {
		slog.WarnContext(ctx, "user registered event dropped", "user_id", evt.UserID)
	}

	return nil
}
