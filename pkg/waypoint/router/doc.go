// Package router provides declarative navigation over a static tree of nodes.
//
// An application describes its screens once as a tree built from four node
// kinds, and then only ever says where it wants to go. The router works out
// which nodes that request activates, compares them with what is currently
// presented and tells the presenters what to change.
//
// # Node Kinds
//
//   - Endpoint: an actual destination, matched by a Route. Children are
//     pushed after it, modals are presented over it.
//   - Stack: a push/pop navigation stack of Endpoints.
//   - Fork: a tab-like container that keeps all of its options alive.
//   - Switcher: swaps the whole UI root between mutually exclusive options.
//
// # Basic Usage
//
//	login := router.NewEndpoint("login", loginPresenter, route.MustPath("login"))
//	detail := router.NewEndpoint("detail", detailPresenter, route.MustPath("games/:id"))
//	list := router.NewEndpoint("list", listPresenter, route.MustPath("games")).
//	    WithChildren(detail)
//
//	root := router.NewSwitcher("root", rootPresenter,
//	    login,
//	    router.NewFork("tabs", tabsPresenter,
//	        router.NewStack("games-stack", gamesStack, list),
//	        router.NewStack("settings-stack", settingsStack, settings),
//	    ),
//	)
//
//	store := router.New(root, router.WithObserver(router.NewLoggingObserver(logger)))
//	store.Dispatch("login")
//	store.Dispatch("games/42")
//
// # Dispatch
//
// Every Dispatch runs the same steps: chain links whose containers are no
// longer attached are pruned, the request is searched for starting at the
// deepest presented node and moving outwards, and the whole tree is searched
// when that finds nothing. The new chain is compared with the old one by node
// id. Modals that went away are dismissed first, then every node from the
// first difference onwards is unwound in reverse order, and finally the new
// chain is applied from the root.
//
// A request that matches nothing leaves an empty chain and unwinds
// everything, unless the Store was created WithIgnoreUnmatched. Callers can
// tell that navigation had no effect from the returned Transition.
//
// # Threading
//
// Dispatch is serialized and may be called from any goroutine. Presenter
// effects run on the Store's Executor, one dispatch at a time and in dispatch
// order; see package mainthread for one bound to an OS thread. Whether a modal
// is already presented is decided when the effects run, so requests reduced
// before earlier effects have drained do not present it twice.
package router
