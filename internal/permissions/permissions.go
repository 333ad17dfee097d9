// Package permissions holds the admin permission catalogue and the dependency
// rules applied when an administrator edits another user's permission set.
//
// Permissions are namespaced strings in the form "category.action"
// (conventions borrowed from kittycat-style permission strings). Action
// permissions depend on view permissions: selecting an action pulls in the
// views it needs, deselecting a view cascades away everything that needed it.
package permissions

import (
	"errors"
	"sort"
)

// Wildcard grants every permission. While present in a set, individual
// permissions cannot be edited; the set collapses to the wildcard alone.
const Wildcard = "*"

const (
	EventsView   = "events.view"
	EventsCreate = "events.create"
	EventsEdit   = "events.edit"
	EventsDelete = "events.delete"

	GalleryView     = "gallery.view"
	GalleryModerate = "gallery.moderate"

	PortraitsView     = "portraits.view"
	PortraitsModerate = "portraits.moderate"

	VereinEventsCreate = "verein.events.create"
	VereinEventsEdit   = "verein.events.edit"
	VereinEventsDelete = "verein.events.delete"
	VereinEventsCancel = "verein.events.cancel"
)

var (
	ErrUnknown        = errors.New("unknown permission")
	ErrWildcardActive = errors.New("wildcard permission active: remove it before editing individual permissions")
)

// requires maps an action permission to the view permissions it depends on.
// verein.events.create additionally needs gallery.view because creating an
// association event surfaces the gallery image picker.
var requires = map[string][]string{
	EventsCreate:       {EventsView},
	EventsEdit:         {EventsView},
	EventsDelete:       {EventsView},
	GalleryModerate:    {GalleryView},
	PortraitsModerate:  {PortraitsView},
	VereinEventsCreate: {EventsView, GalleryView},
	VereinEventsEdit:   {EventsView},
	VereinEventsDelete: {EventsView},
	VereinEventsCancel: {EventsView},
}

// impliedBy is the inverse of requires: view permission -> the action
// permissions that declared it. Built once at init.
var impliedBy = map[string][]string{}

var known = map[string]struct{}{}

func init() {
	for _, p := range []string{
		Wildcard,
		EventsView, EventsCreate, EventsEdit, EventsDelete,
		GalleryView, GalleryModerate,
		PortraitsView, PortraitsModerate,
		VereinEventsCreate, VereinEventsEdit, VereinEventsDelete, VereinEventsCancel,
	} {
		known[p] = struct{}{}
	}
	for action, views := range requires {
		for _, v := range views {
			impliedBy[v] = append(impliedBy[v], action)
		}
	}
	for v := range impliedBy {
		sort.Strings(impliedBy[v])
	}
}

// Set is a selected-permission set under edit.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(perm string) bool {
	_, ok := s[perm]
	return ok
}

// Slice returns the set's members in sorted order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Select adds perm and, transitively, every permission it requires.
// Selecting the wildcard collapses the set to the wildcard alone.
func Select(set Set, perm string) (Set, error) {
	if _, ok := known[perm]; !ok {
		return nil, ErrUnknown
	}
	if perm == Wildcard {
		return NewSet(Wildcard), nil
	}
	if set.Has(Wildcard) {
		return nil, ErrWildcardActive
	}

	out := set.clone()
	stack := []string{perm}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if out.Has(p) {
			continue
		}
		out[p] = struct{}{}
		stack = append(stack, requires[p]...)
	}
	return out, nil
}

// Deselect removes perm and cascades: every selected permission that requires
// a removed permission is removed as well, transitively. Permissions that perm
// itself required stay selected; they are only removed when deselected
// explicitly.
func Deselect(set Set, perm string) (Set, error) {
	if _, ok := known[perm]; !ok {
		return nil, ErrUnknown
	}
	if perm == Wildcard {
		out := set.clone()
		delete(out, Wildcard)
		return out, nil
	}
	if set.Has(Wildcard) {
		return nil, ErrWildcardActive
	}

	out := set.clone()
	delete(out, perm)

	removed := NewSet(perm)
	// The dependency table is tiny and fixed, so a fixpoint loop over the
	// selected set is simpler than a worklist and just as fast.
	for changed := true; changed; {
		changed = false
		for p := range out {
			for _, req := range requires[p] {
				if removed.Has(req) {
					delete(out, p)
					removed[p] = struct{}{}
					changed = true
					break
				}
			}
		}
	}
	return out, nil
}

// Normalize collapses any set containing the wildcard to the wildcard alone.
func Normalize(set Set) Set {
	if set.Has(Wildcard) {
		return NewSet(Wildcard)
	}
	return set.clone()
}
