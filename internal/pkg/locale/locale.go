// Package locale resolves language keys against the set the application
// ships translations for.
package locale

import (
	"errors"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoLanguages is returned when a Matcher is built from an empty list.
var ErrNoLanguages = errors.New("locale: at least one language is required")

// Matcher canonicalises user supplied language keys to a supported one. The
// first configured language is the fallback.
type Matcher struct {
	supported []language.Tag
	keys      []string
	matcher   language.Matcher
}

// NewMatcher builds a Matcher over keys such as "en", "fr" or "pt-br".
func NewMatcher(keys []string) (*Matcher, error) {
	m := &Matcher{}
	for _, k := range keys {
		tag, err := language.Parse(strings.TrimSpace(k))
		if err != nil {
			return nil, err
		}
		m.supported = append(m.supported, tag)
		m.keys = append(m.keys, strings.ToLower(tag.String()))
	}
	if len(m.supported) == 0 {
		return nil, ErrNoLanguages
	}

	m.matcher = language.NewMatcher(m.supported)
	return m, nil
}

// Default returns the fallback language key.
func (m *Matcher) Default() string {
	return m.keys[0]
}

// Match returns the supported key closest to key. Unknown or malformed input
// yields the default.
func (m *Matcher) Match(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return m.Default()
	}

	tag, err := language.Parse(key)
	if err != nil {
		return m.Default()
	}

	_, idx, conf := m.matcher.Match(tag)
	if conf == language.No {
		return m.Default()
	}
	return m.keys[idx]
}

// Env reports the terminal language derived from LC_ALL, LC_MESSAGES or LANG,
// matched against the supported set.
type Env struct {
	matcher *Matcher
	lookup  func(string) (string, bool)
}

// NewEnv returns an Env reading the process environment.
func NewEnv(m *Matcher) *Env {
	return &Env{matcher: m, lookup: os.LookupEnv}
}

// CurrentLanguage returns the matched language key of the environment.
func (e *Env) CurrentLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v, ok := e.lookup(name)
		if !ok || v == "" || v == "C" || v == "POSIX" {
			continue
		}
		// "fr_FR.UTF-8" -> "fr-FR"
		v, _, _ = strings.Cut(v, ".")
		v, _, _ = strings.Cut(v, "@")
		return e.matcher.Match(strings.ReplaceAll(v, "_", "-"))
	}
	return e.matcher.Default()
}

// Fixed is a language provider that always reports the same key.
type Fixed string

// CurrentLanguage returns the fixed key.
func (f Fixed) CurrentLanguage() string {
	return string(f)
}
