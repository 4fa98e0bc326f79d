// Package tree builds router trees from declarative definitions.
//
// A definition is a flat list of nodes linked by id, which lets a node be
// shared between parents or reached again further down (cycles are allowed):
//
//	root = "app"
//
//	[[node]]
//	id = "app"
//	kind = "switcher"
//	options = ["library"]
//
//	[[node]]
//	id = "library"
//	kind = "stack"
//	members = ["games"]
//
//	[[node]]
//	id = "games"
//	route = "games"
//	children = ["game"]
//
//	[[node]]
//	id = "game"
//	route = "games/:id"
//
// Presenters are looked up in a Registry by the node's presenter key, which
// defaults to its id.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Definition is a whole tree. Root names the root node; when empty the first
// node is the root.
type Definition struct {
	Root  string     `toml:"root" yaml:"root"`
	Nodes []NodeSpec `toml:"node" yaml:"nodes"`
}

// NodeSpec declares one node. Kind is one of endpoint (the default), stack,
// fork or switcher. Route is a route pattern and only applies to endpoints.
type NodeSpec struct {
	ID          string   `toml:"id" yaml:"id"`
	Kind        string   `toml:"kind" yaml:"kind"`
	Presenter   string   `toml:"presenter" yaml:"presenter"`
	Route       string   `toml:"route" yaml:"route"`
	CaseFold    bool     `toml:"case_fold" yaml:"case_fold"`
	StrictSlash bool     `toml:"strict_slash" yaml:"strict_slash"`
	Children    []string `toml:"children" yaml:"children"`
	Modals      []string `toml:"modals" yaml:"modals"`
	Members     []string `toml:"members" yaml:"members"`
	Options     []string `toml:"options" yaml:"options"`
}

// Registry supplies presenters for the nodes of a definition. The returned
// presenter must implement the interface for kind (router.EndpointPresenter
// for router.KindEndpoint and so on).
type Registry interface {
	Presenter(kind router.Kind, key string) (router.Presenter, bool)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(kind router.Kind, key string) (router.Presenter, bool)

func (f RegistryFunc) Presenter(kind router.Kind, key string) (router.Presenter, bool) {
	return f(kind, key)
}

// Presenters is a Registry backed by a map keyed by presenter key.
type Presenters map[string]router.Presenter

func (p Presenters) Presenter(_ router.Kind, key string) (router.Presenter, bool) {
	pr, ok := p[key]
	return pr, ok
}

// ParseKind maps a definition kind name to a router.Kind. The empty string is
// an endpoint.
func ParseKind(name string) (router.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "endpoint":
		return router.KindEndpoint, nil
	case "stack":
		return router.KindStack, nil
	case "fork":
		return router.KindFork, nil
	case "switcher":
		return router.KindSwitcher, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
}

// Tree is the result of building a Definition.
type Tree struct {
	Root  router.Node
	Index *router.Index
}

// Build creates the nodes of def, links them and validates the result.
// Every problem found is reported; the returned error joins them.
func Build(def *Definition, reg Registry) (*Tree, error) {
	if def == nil || len(def.Nodes) == 0 {
		return nil, ErrEmptyTree
	}

	var errs []error
	nodes := make(map[string]router.Node, len(def.Nodes))
	specs := make([]NodeSpec, 0, len(def.Nodes))

	for _, spec := range def.Nodes {
		if spec.ID == "" {
			errs = append(errs, &DefinitionError{Field: "id", Err: router.ErrEmptyID})
			continue
		}
		if _, dup := nodes[spec.ID]; dup {
			errs = append(errs, &DefinitionError{Node: spec.ID, Err: ErrDuplicateID})
			continue
		}
		n, err := create(spec, reg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		nodes[spec.ID] = n
		specs = append(specs, spec)
	}

	for _, spec := range specs {
		errs = append(errs, link(nodes[spec.ID], spec, nodes)...)
	}

	rootID := def.Root
	if rootID == "" {
		rootID = def.Nodes[0].ID
	}
	root, ok := nodes[rootID]
	if !ok {
		errs = append(errs, &DefinitionError{Node: rootID, Field: "root", Err: ErrUnknownNode})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	index, err := router.Validate(root)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Index: index}, nil
}

func create(spec NodeSpec, reg Registry) (router.Node, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, &DefinitionError{Node: spec.ID, Field: "kind", Err: err}
	}

	key := spec.Presenter
	if key == "" {
		key = spec.ID
	}
	missing := func() error {
		return &DefinitionError{
			Node:  spec.ID,
			Field: "presenter",
			Err:   fmt.Errorf("%w: %s presenter %q", ErrUnknownPresenter, kind, key),
		}
	}
	var p router.Presenter
	if reg != nil {
		p, _ = reg.Presenter(kind, key)
	}
	if p == nil {
		return nil, missing()
	}

	if spec.Route != "" && kind != router.KindEndpoint {
		return nil, &DefinitionError{Node: spec.ID, Field: "route", Err: fmt.Errorf("%w: %s", ErrInvalidEdge, kind)}
	}

	switch kind {
	case router.KindEndpoint:
		ep, ok := p.(router.EndpointPresenter)
		if !ok {
			return nil, missing()
		}
		var r router.Route
		if spec.Route != "" {
			path, err := route.NewPath(spec.Route, routeOptions(spec)...)
			if err != nil {
				return nil, &DefinitionError{Node: spec.ID, Field: "route", Err: err}
			}
			r = path
		}
		return router.NewEndpoint(spec.ID, ep, r), nil
	case router.KindStack:
		sp, ok := p.(router.StackPresenter)
		if !ok {
			return nil, missing()
		}
		return router.NewStack(spec.ID, sp), nil
	case router.KindFork:
		fp, ok := p.(router.ForkPresenter)
		if !ok {
			return nil, missing()
		}
		return router.NewFork(spec.ID, fp), nil
	default:
		sw, ok := p.(router.SwitcherPresenter)
		if !ok {
			return nil, missing()
		}
		return router.NewSwitcher(spec.ID, sw), nil
	}
}

func routeOptions(spec NodeSpec) []route.Option {
	var opts []route.Option
	if spec.CaseFold {
		opts = append(opts, route.WithCaseFolding())
	}
	if spec.StrictSlash {
		opts = append(opts, route.WithTrailingSlash(route.TrailingSlashStrict))
	}
	return opts
}

func link(n router.Node, spec NodeSpec, nodes map[string]router.Node) []error {
	var errs []error
	resolve := func(field string, ids []string) []router.Node {
		out := make([]router.Node, 0, len(ids))
		for _, id := range ids {
			target, ok := nodes[id]
			if !ok {
				errs = append(errs, &DefinitionError{
					Node:  spec.ID,
					Field: field,
					Err:   fmt.Errorf("%w %q", ErrUnknownNode, id),
				})
				continue
			}
			out = append(out, target)
		}
		return out
	}
	refuse := func(field string, ids []string) {
		if len(ids) > 0 {
			errs = append(errs, &DefinitionError{
				Node:  spec.ID,
				Field: field,
				Err:   fmt.Errorf("%w: %s", ErrInvalidEdge, n.Kind()),
			})
		}
	}

	switch v := n.(type) {
	case *router.Endpoint:
		v.WithChildren(resolve("children", spec.Children)...)
		v.WithModals(resolve("modals", spec.Modals)...)
		refuse("members", spec.Members)
		refuse("options", spec.Options)
	case *router.Stack:
		v.Append(resolve("members", spec.Members)...)
		refuse("children", spec.Children)
		refuse("modals", spec.Modals)
		refuse("options", spec.Options)
	case *router.Fork:
		v.Append(resolve("options", spec.Options)...)
		refuse("children", spec.Children)
		refuse("modals", spec.Modals)
		refuse("members", spec.Members)
	case *router.Switcher:
		v.Append(resolve("options", spec.Options)...)
		refuse("children", spec.Children)
		refuse("modals", spec.Modals)
		refuse("members", spec.Members)
	}
	return errs
}
