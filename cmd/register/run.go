package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lukrlier/notabene/internal/pkg/config"
	"github.com/lukrlier/notabene/internal/pkg/instrument"
	"github.com/lukrlier/notabene/internal/pkg/locale"
	"github.com/lukrlier/notabene/internal/pkg/uid"
	"github.com/lukrlier/notabene/internal/signup"
	"github.com/spf13/pflag"
)

const envPrefix = "NOTABENE"

const (
	exitOK       = 0
	exitFailed   = 1
	exitUsage    = 2
	exitMismatch = 3
)

type terminalPrompter struct {
	out     io.Writer
	baseURL string
}

func (p terminalPrompter) ShowLogin(context.Context) {
	fmt.Fprintf(p.out, "Already registered? Sign in at %s/login\n", strings.TrimRight(p.baseURL, "/"))
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.String("base-url", "http://localhost:8080", "account server base URL")
	fs.String("login", "", "login name")
	fs.String("email", "", "email address")
	fs.String("password", "", "password")
	fs.String("confirm-password", "", "password confirmation, read from stdin when omitted")
	fs.String("lang-key", "", "language key, derived from LANG when omitted")
	fs.String("languages", "en,fr,de,es,it,pt-br,ja,zh-cn", "supported language keys, the first is the default")
	fs.Int("timeout-seconds", 10, "request timeout")
	fs.Bool("login-prompt", false, "print the sign-in hint and exit")
	fs.BoolP("verbose", "v", false, "debug logging")

	return fs
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.NewViperFromFlags(envPrefix, fs)
	if err != nil {
		fmt.Fprintln(stderr, "failed to read flags:", err)
		return exitUsage
	}

	instrument.SetupConsole(stderr, cfg.GetBool("verbose"), []string{"password", "confirm-password"})

	matcher, err := locale.NewMatcher(cfg.GetArray("languages"))
	if err != nil {
		fmt.Fprintln(stderr, "invalid --languages:", err)
		return exitUsage
	}

	baseURL := cfg.GetString("base-url")
	w := signup.New(signup.Dependency{
		Registrar: signup.NewHTTPRegistrar(baseURL, &http.Client{Timeout: cfg.GetSecond("timeout-seconds")}),
		Prompter:  terminalPrompter{out: stdout, baseURL: baseURL},
		Language:  locale.NewEnv(matcher),
	})

	ctx = instrument.SetCorrelationID(ctx, uid.NewUUID().Generate())

	if cfg.GetBool("login-prompt") {
		w.RequestLoginPrompt(ctx)
		return exitOK
	}

	optional := func(key string) *string {
		v := cfg.GetString(key)
		if v == "" && !fs.Changed(key) {
			return nil
		}
		return &v
	}

	draft := signup.DraftAccount{
		Login:    optional("login"),
		Email:    optional("email"),
		Password: optional("password"),
		LangKey:  optional("lang-key"),
	}
	if draft.LangKey != nil {
		lang := matcher.Match(*draft.LangKey)
		draft.LangKey = &lang
	}
	w.SetDraft(draft)

	confirm := optional("confirm-password")
	if confirm == nil {
		fmt.Fprint(stderr, "Confirm password: ")
		line, err := readLine(stdin)
		if err != nil {
			fmt.Fprintln(stderr, "failed to read confirmation:", err)
			return exitUsage
		}
		confirm = &line
	}
	w.SetConfirmPassword(confirm)

	submitCtx, cancel := context.WithTimeout(ctx, cfg.GetSecond("timeout-seconds")+time.Second)
	defer cancel()

	outcome, err := w.Submit(submitCtx)
	printState(stdout, w.Snapshot())

	switch {
	case errors.Is(err, signup.ErrPasswordMismatch):
		return exitMismatch
	case outcome != signup.OutcomeSuccess:
		return exitFailed
	default:
		return exitOK
	}
}

func readLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}

func printState(out io.Writer, s signup.ViewState) {
	fmt.Fprintf(out, "status:             %s\n", s.Status)
	fmt.Fprintf(out, "login:              %s\n", show(s.Draft.Login))
	fmt.Fprintf(out, "email:              %s\n", show(s.Draft.Email))
	fmt.Fprintf(out, "langKey:            %s\n", show(s.Draft.LangKey))
	fmt.Fprintf(out, "doNotMatch:         %t\n", s.DoNotMatch)
	fmt.Fprintf(out, "error:              %s\n", s.Error)
	fmt.Fprintf(out, "errorUserExists:    %s\n", s.ErrorUserExists)
	fmt.Fprintf(out, "errorEmailExists:   %s\n", s.ErrorEmailExists)
}

func show(s *string) string {
	if s == nil {
		return "<unset>"
	}
	return *s
}
