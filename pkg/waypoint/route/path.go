package route

import (
	"fmt"
	"net/url"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Path is a router.Route that matches requests carrying a path: strings,
// *url.URL values and anything implementing fmt.Stringer. Other requests
// never match.
//
// Query parameters are merged into the resolved Parameters; path parameters
// win on conflicts and only the first value of a repeated key is kept.
type Path struct {
	pattern *Pattern
}

// NewPath compiles pattern into a Path route.
func NewPath(pattern string, opts ...Option) (*Path, error) {
	p, err := Compile(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return &Path{pattern: p}, nil
}

// MustPath is like NewPath but panics on an invalid pattern.
func MustPath(pattern string, opts ...Option) *Path {
	return &Path{pattern: MustCompile(pattern, opts...)}
}

// Pattern returns the compiled pattern.
func (r *Path) Pattern() *Pattern {
	return r.pattern
}

func (r *Path) String() string {
	return r.pattern.String()
}

func (r *Path) Matches(req router.Request) bool {
	raw, ok := requestPath(req)
	if !ok {
		return false
	}
	path, _ := ParsePath(raw)
	_, ok = r.pattern.Match(path)
	return ok
}

func (r *Path) Resolve(req router.Request) router.Parameters {
	raw, ok := requestPath(req)
	if !ok {
		return router.Parameters{}
	}
	path, query := ParsePath(raw)
	params, ok := r.pattern.Match(path)
	if !ok {
		return router.Parameters{}
	}
	for k, vs := range query {
		if _, taken := params[k]; taken || len(vs) == 0 {
			continue
		}
		params[k] = vs[0]
	}
	return params
}

func requestPath(req router.Request) (string, bool) {
	switch v := req.(type) {
	case string:
		return v, true
	case *url.URL:
		if v == nil {
			return "", false
		}
		return v.RequestURI(), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
