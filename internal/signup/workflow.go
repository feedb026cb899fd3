package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/shared/problem"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrPasswordMismatch is returned by Submit when the confirmation differs from
// the draft password. No request is sent.
var ErrPasswordMismatch = errors.New("signup: password and its confirmation do not match")

// Registrar sends a registration to the server.
type Registrar interface {
	Register(ctx context.Context, payload RegisterPayload) error
}

// LoginPrompter opens the sign-in dialog.
type LoginPrompter interface {
	ShowLogin(ctx context.Context)
}

// LanguageProvider reports the user's current language key.
type LanguageProvider interface {
	CurrentLanguage() string
}

// Dependency wires a Workflow. Instrument may be nil.
type Dependency struct {
	Registrar  Registrar
	Prompter   LoginPrompter
	Language   LanguageProvider
	Instrument instrument.Instrumentation
}

// Workflow is the registration view-model. It is safe for concurrent use;
// overlapping submissions are not deduplicated and the last one to complete
// decides the state.
type Workflow struct {
	registrar Registrar
	prompter  LoginPrompter
	language  LanguageProvider
	ins       instrument.Instrumentation

	mu               sync.Mutex
	draft            DraftAccount
	confirmPassword  *string
	status           SubmissionStatus
	errGeneric       string
	errEmailExists   string
	errUserExists    string
	passwordMismatch bool
}

// New returns a Workflow with an empty draft and no submission.
func New(dep Dependency) *Workflow {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Workflow{
		registrar: dep.Registrar,
		prompter:  dep.Prompter,
		language:  dep.Language,
		ins:       ins,
	}
}

func (w *Workflow) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return w.ins.Tracer("signup.workflow").Start(ctx, name)
}

// RequestLoginPrompt asks the LoginPrompter to show the sign-in dialog.
func (w *Workflow) RequestLoginPrompt(ctx context.Context) {
	ctx, span := w.startSpan(ctx, "RequestLoginPrompt")
	defer span.End()

	w.prompter.ShowLogin(ctx)
}

// Submit sends the draft when the confirmation matches its password. The
// only error it returns is ErrPasswordMismatch, together with OutcomeNotSent;
// rejections and transport failures are reported through the state accessors
// and the Outcome.
func (w *Workflow) Submit(ctx context.Context) (Outcome, error) {
	ctx, span := w.startSpan(ctx, "Submit")
	defer span.End()

	w.mu.Lock()
	if !equalPtr(w.confirmPassword, w.draft.Password) {
		w.passwordMismatch = true
		w.mu.Unlock()
		slog.DebugContext(ctx, "registration not sent, passwords do not match")
		return OutcomeNotSent, ErrPasswordMismatch
	}
	w.passwordMismatch = false

	if w.draft.LangKey == nil {
		lang := w.language.CurrentLanguage()
		w.draft.LangKey = &lang
	}
	payload := RegisterPayload{
		Email:    deref(w.draft.Email),
		LangKey:  deref(w.draft.LangKey),
		Login:    deref(w.draft.Login),
		Password: deref(w.draft.Password),
	}
	w.mu.Unlock()

	err := w.registrar.Register(ctx, payload)
	outcome := classify(err)
	span.SetAttributes(attribute.String("signup.outcome", outcome.String()))

	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "registration failed", "login", payload.Login, "outcome", outcome.String(), "error", err)
	} else {
		slog.InfoContext(ctx, "registration accepted", "login", payload.Login)
	}

	w.mu.Lock()
	w.apply(outcome)
	w.mu.Unlock()

	return outcome, nil
}

func (w *Workflow) apply(o Outcome) {
	w.errGeneric, w.errEmailExists, w.errUserExists = "", "", ""
	w.status = StatusFailed

	switch o {
	case OutcomeSuccess:
		w.status = StatusSucceeded
	case OutcomeLoginAlreadyUsed:
		w.errUserExists = ErrorMarker
	case OutcomeEmailAlreadyUsed:
		w.errEmailExists = ErrorMarker
	default:
		w.errGeneric = ErrorMarker
	}
}

func classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.StatusCode == http.StatusBadRequest {
		switch rejected.Type {
		case problem.LoginAlreadyUsedType:
			return OutcomeLoginAlreadyUsed
		case problem.EmailAlreadyUsedType:
			return OutcomeEmailAlreadyUsed
		}
	}

	return OutcomeGenericFailure
}

// SetDraft replaces the draft. The workflow keeps its own copy.
func (w *Workflow) SetDraft(d DraftAccount) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = d.clone()
}

// SetConfirmPassword sets the confirmation field; nil clears it.
func (w *Workflow) SetConfirmPassword(p *string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.confirmPassword = clonePtr(p)
}

// Draft returns a copy of the form.
func (w *Workflow) Draft() DraftAccount {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.clone()
}

// ConfirmPassword returns a copy of the confirmation field.
func (w *Workflow) ConfirmPassword() *string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return clonePtr(w.confirmPassword)
}

// Status reports how the last sent submission ended.
func (w *Workflow) Status() SubmissionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Error is ErrorMarker after a failure that is neither a taken login nor a
// taken email.
func (w *Workflow) Error() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errGeneric
}

// ErrorEmailExists is ErrorMarker when the server rejected the email as taken.
func (w *Workflow) ErrorEmailExists() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errEmailExists
}

// ErrorUserExists is ErrorMarker when the server rejected the login as taken.
func (w *Workflow) ErrorUserExists() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errUserExists
}

// DoNotMatch reports whether the last Submit stopped on a password mismatch.
func (w *Workflow) DoNotMatch() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passwordMismatch
}

// Snapshot returns a copy of the whole state.
func (w *Workflow) Snapshot() ViewState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return ViewState{
		Draft:            w.draft.clone(),
		ConfirmPassword:  clonePtr(w.confirmPassword),
		Status:           w.status,
		Error:            w.errGeneric,
		ErrorEmailExists: w.errEmailExists,
		ErrorUserExists:  w.errUserExists,
		DoNotMatch:       w.passwordMismatch,
	}
}
