// Package route implements path-pattern routes for the router.
//
// Patterns support:
//   - Static segments: "games", "settings/display"
//   - Parameters: "games/:id", "users/:user/saves/:slot"
//   - Wildcards: "files/*path" (captures the remaining path, possibly empty)
//
// Leading slashes are optional in both patterns and requests.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// ErrInvalidPattern is wrapped by every pattern compilation error.
var ErrInvalidPattern = errors.New("invalid route pattern")

// TrailingSlash controls how trailing slashes are handled in matching.
type TrailingSlash int

const (
	// TrailingSlashStrip treats "games/" the same as "games".
	TrailingSlashStrip TrailingSlash = iota
	// TrailingSlashStrict requires the request to match the pattern's
	// trailing slash exactly.
	TrailingSlashStrict
)

type segmentKind int

const (
	segStatic segmentKind = iota
	segParam
	segWildcard
)

type segment struct {
	kind  segmentKind
	value string // literal text (folded when case folding) or parameter name
}

// Pattern is a compiled path pattern. It is safe for concurrent use.
type Pattern struct {
	raw      string
	segments []segment
	trailing bool
	slash    TrailingSlash
	fold     bool
}

// Option configures a Pattern.
type Option func(*Pattern)

// WithTrailingSlash sets the trailing slash behavior. The default is
// TrailingSlashStrip.
func WithTrailingSlash(b TrailingSlash) Option {
	return func(p *Pattern) { p.slash = b }
}

// WithCaseFolding makes static segments match regardless of case, using
// Unicode case folding. Parameter values keep the case of the request.
func WithCaseFolding() Option {
	return func(p *Pattern) { p.fold = true }
}

// Compile parses pattern.
func Compile(pattern string, opts ...Option) (*Pattern, error) {
	p := &Pattern{raw: pattern}
	for _, opt := range opts {
		opt(p)
	}

	trimmed := strings.TrimPrefix(pattern, "/")
	if strings.HasSuffix(trimmed, "/") {
		p.trailing = true
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	if trimmed == "" {
		return p, nil
	}

	caser := cases.Fold()
	seen := make(map[string]bool)
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		switch {
		case part == "":
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPattern, pattern)
		case part[0] == ':' || part[0] == '*':
			name := part[1:]
			kind := segParam
			if part[0] == '*' {
				kind = segWildcard
				if i != len(parts)-1 {
					return nil, fmt.Errorf("%w %q: wildcard must be the last segment", ErrInvalidPattern, pattern)
				}
				if name == "" {
					name = "wildcard"
				}
			}
			if name == "" {
				return nil, fmt.Errorf("%w %q: parameter without a name", ErrInvalidPattern, pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w %q: duplicate parameter %q", ErrInvalidPattern, pattern, name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{kind: kind, value: name})
		default:
			if p.fold {
				part = caser.String(part)
			}
			p.segments = append(p.segments, segment{kind: segStatic, value: part})
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics on an invalid pattern.
func MustCompile(pattern string, opts ...Option) *Pattern {
	p, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) String() string {
	return p.raw
}

// Match matches path (without query string) against the pattern and returns
// the decoded parameter values.
func (p *Pattern) Match(path string) (router.Parameters, bool) {
	path = strings.TrimPrefix(path, "/")
	trailing := strings.HasSuffix(path, "/")
	path = strings.TrimSuffix(path, "/")

	var parts []string
	if path != "" {
		parts = strings.Split(path, "/")
	}

	params := router.Parameters{}
	var caser cases.Caser
	if p.fold {
		caser = cases.Fold()
	}

	for i, seg := range p.segments {
		if seg.kind == segWildcard {
			rest := strings.Join(parts[min(i, len(parts)):], "/")
			params[seg.value] = unescape(rest)
			return params, true
		}
		if i >= len(parts) || parts[i] == "" {
			return nil, false
		}
		switch seg.kind {
		case segParam:
			params[seg.value] = unescape(parts[i])
		case segStatic:
			part := parts[i]
			if p.fold {
				part = caser.String(part)
			}
			if part != seg.value {
				return nil, false
			}
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	if p.slash == TrailingSlashStrict && trailing != p.trailing {
		return nil, false
	}
	return params, true
}

func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}

// ParsePath splits a request into its path and decoded query values.
// Fragments are dropped.
func ParsePath(raw string) (string, url.Values) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	path, rawQuery, found := strings.Cut(raw, "?")
	if !found {
		return path, url.Values{}
	}
	// malformed pairs are dropped, the rest are kept
	query, _ := url.ParseQuery(rawQuery)
	return path, query
}
