package tags

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeparators is the token boundary pattern applied to filenames:
// any run of underscores, hyphens, whitespace, or dots.
const DefaultSeparators = `[_\-\s\.]+`

// weakTokens lists filename noise that carries no search value.
var weakTokens = map[string]bool{
	"img":   true,
	"image": true,
	"pic":   true,
	"photo": true,
	"copy":  true,
	"final": true,
	"new":   true,
	"old":   true,
	"tmp":   true,
}

// Config controls how tags are derived from filenames.
type Config struct {
	// Enabled turns derivation off entirely when false.
	Enabled bool
	// Separators is a regular expression matching token boundaries.
	Separators string
	// FilterWeak drops all-digit tokens, single characters, and
	// known noise words.
	FilterWeak bool
}

// DefaultConfig returns the derivation settings used when nothing is
// configured: derivation on, default separators, weak tokens filtered.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Separators: DefaultSeparators,
		FilterWeak: true,
	}
}

// Deriver turns filenames into ordered tag lists. It is safe for
// concurrent use.
type Deriver struct {
	cfg Config
	sep *regexp.Regexp
}

// NewDeriver compiles the separator pattern and returns a ready Deriver.
func NewDeriver(cfg Config) (*Deriver, error) {
	if cfg.Separators == "" {
		cfg.Separators = DefaultSeparators
	}
	sep, err := regexp.Compile(cfg.Separators)
	if err != nil {
		return nil, fmt.Errorf("invalid tag separator pattern %q: %w", cfg.Separators, err)
	}
	return &Deriver{cfg: cfg, sep: sep}, nil
}

// Derive extracts tags from a single filename. The final extension is
// stripped, the remainder is lowercased and split on the separator
// pattern, and weak tokens are filtered when configured. Tokens keep
// their order of appearance. The result is never nil; filenames that
// yield nothing produce an empty slice.
func (d *Deriver) Derive(filename string) []string {
	derived := []string{}
	if !d.cfg.Enabled {
		return derived
	}

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, token := range d.sep.Split(strings.ToLower(stem), -1) {
		if token == "" {
			continue
		}
		if d.cfg.FilterWeak && isWeak(token) {
			continue
		}
		derived = append(derived, token)
	}
	return derived
}

// isWeak reports whether a token is filename noise: a pure number, a
// single character, or a known junk word.
func isWeak(token string) bool {
	if weakTokens[token] {
		return true
	}
	if utf8.RuneCountInString(token) <= 1 {
		return true
	}
	return allDigits(token)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
