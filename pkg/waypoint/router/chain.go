package router

import "strings"

// Link is one element of an active Chain: a node and the modal chain
// currently presented over it.
type Link struct {
	Node  Node
	Modal Chain
}

// Chain is the active sequence of nodes from the root toward the deepest
// presented node. Only the last link of a chain may carry a modal chain, so
// the deepest node is found by following the last link's modal recursively.
type Chain []Link

// ChainOf builds a chain without modals.
func ChainOf(nodes ...Node) Chain {
	c := make(Chain, len(nodes))
	for i, n := range nodes {
		c[i] = Link{Node: n}
	}
	return c
}

// Nodes returns the main-line nodes, ignoring modal chains.
func (c Chain) Nodes() []Node {
	nodes := make([]Node, len(c))
	for i, l := range c {
		nodes[i] = l.Node
	}
	return nodes
}

// IDs returns the ids of the main-line nodes.
func (c Chain) IDs() []string {
	ids := make([]string, len(c))
	for i, l := range c {
		ids[i] = l.Node.ID()
	}
	return ids
}

// Modal returns the modal chain of the last link, or nil.
func (c Chain) Modal() Chain {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1].Modal
}

// Terminal returns the deepest presented node, following modal chains.
func (c Chain) Terminal() Node {
	if len(c) == 0 {
		return nil
	}
	last := c[len(c)-1]
	if len(last.Modal) > 0 {
		return last.Modal.Terminal()
	}
	return last.Node
}

// TerminalID returns the id of Terminal, or "" for an empty chain.
func (c Chain) TerminalID() string {
	if n := c.Terminal(); n != nil {
		return n.ID()
	}
	return ""
}

// Equal reports whether both chains hold the same node ids in the same
// positions, including modal chains.
func (c Chain) Equal(o Chain) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i].Node.ID() != o[i].Node.ID() || !c[i].Modal.Equal(o[i].Modal) {
			return false
		}
	}
	return true
}

// String renders the chain as "a > b > c{m > n}".
func (c Chain) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c Chain) write(b *strings.Builder) {
	for i, l := range c {
		if i > 0 {
			b.WriteString(" > ")
		}
		b.WriteString(l.Node.ID())
		if len(l.Modal) > 0 {
			b.WriteByte('{')
			l.Modal.write(b)
			b.WriteByte('}')
		}
	}
}

// extend returns a copy of c with n appended.
func extend(c Chain, n Node) Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, Link{Node: n})
}

// withDeepest returns a copy of c whose deepest chain has been replaced by
// fn(deepest). The copy shares no modal slices with c along the changed path.
func (c Chain) withDeepest(fn func(Chain) Chain) Chain {
	if len(c) == 0 {
		return fn(c)
	}
	out := make(Chain, len(c))
	copy(out, c)
	last := len(out) - 1
	if len(out[last].Modal) > 0 {
		out[last].Modal = out[last].Modal.withDeepest(fn)
		if len(out[last].Modal) == 0 {
			out[last].Modal = nil
		}
		return out
	}
	return fn(out)
}

// appendDeepest appends tail after the deepest node.
func (c Chain) appendDeepest(tail Chain) Chain {
	return c.withDeepest(func(d Chain) Chain {
		out := make(Chain, 0, len(d)+len(tail))
		out = append(out, d...)
		return append(out, tail...)
	})
}

// attachModalDeepest hangs modal off the deepest node.
func (c Chain) attachModalDeepest(modal Chain) Chain {
	return c.withDeepest(func(d Chain) Chain {
		if len(d) == 0 {
			return d
		}
		d[len(d)-1].Modal = modal
		return d
	})
}

// dropDeepest removes the deepest node.
func (c Chain) dropDeepest() Chain {
	return c.withDeepest(func(d Chain) Chain {
		if len(d) == 0 {
			return d
		}
		return d[:len(d)-1]
	})
}

// prune keeps the chain up to its last attached node and prunes modal chains
// the same way.
func (c Chain) prune(attached func(Node) bool) Chain {
	last := -1
	for i, l := range c {
		if attached(l.Node) {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	out := make(Chain, last+1)
	for i := 0; i <= last; i++ {
		out[i] = Link{Node: c[i].Node}
		if m := c[i].Modal.prune(attached); len(m) > 0 {
			out[i].Modal = m
		}
	}
	return out
}

// throughFirstModal cuts the chain after the first link that owns a modal.
func (c Chain) throughFirstModal() Chain {
	for i, l := range c {
		if len(l.Modal) > 0 {
			return c[:i+1]
		}
	}
	return c
}

// modalHosts maps every host in c (modal chains included) to the root of the
// modal presented over it.
func (c Chain) modalHosts(into map[string]Node) map[string]Node {
	if into == nil {
		into = make(map[string]Node)
	}
	for _, l := range c {
		if len(l.Modal) > 0 {
			into[l.Node.ID()] = l.Modal[0].Node
			l.Modal.modalHosts(into)
		}
	}
	return into
}
