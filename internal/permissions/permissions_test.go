package permissions_test

import (
	"reflect"
	"testing"

	"github.com/dorfportal/reminder-service/internal/permissions"
)

func TestSelect(t *testing.T) {
	t.Run("action pulls in its view permission", func(t *testing.T) {
		set, err := permissions.Select(permissions.NewSet(), permissions.EventsCreate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{permissions.EventsCreate, permissions.EventsView}
		if got := set.Slice(); !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("cross-category dependency pulls in both views", func(t *testing.T) {
		set, err := permissions.Select(permissions.NewSet(), permissions.VereinEventsCreate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range []string{
			permissions.VereinEventsCreate,
			permissions.EventsView,
			permissions.GalleryView,
		} {
			if !set.Has(p) {
				t.Fatalf("expected %q in set %v", p, set.Slice())
			}
		}
	})

	t.Run("selecting an already selected permission is stable", func(t *testing.T) {
		set, _ := permissions.Select(permissions.NewSet(), permissions.EventsCreate)
		again, err := permissions.Select(set, permissions.EventsCreate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(again.Slice(), set.Slice()) {
			t.Fatalf("got %v, want %v", again.Slice(), set.Slice())
		}
	})

	t.Run("unknown permission rejected", func(t *testing.T) {
		if _, err := permissions.Select(permissions.NewSet(), "mayor.coffee"); err != permissions.ErrUnknown {
			t.Fatalf("expected ErrUnknown, got %v", err)
		}
	})

	t.Run("wildcard collapses the set", func(t *testing.T) {
		set, _ := permissions.Select(permissions.NewSet(), permissions.EventsCreate)
		set, err := permissions.Select(set, permissions.Wildcard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := set.Slice(); !reflect.DeepEqual(got, []string{permissions.Wildcard}) {
			t.Fatalf("got %v, want wildcard only", got)
		}
	})

	t.Run("individual edits blocked while wildcard active", func(t *testing.T) {
		set := permissions.NewSet(permissions.Wildcard)
		if _, err := permissions.Select(set, permissions.EventsCreate); err != permissions.ErrWildcardActive {
			t.Fatalf("expected ErrWildcardActive, got %v", err)
		}
		if _, err := permissions.Deselect(set, permissions.EventsCreate); err != permissions.ErrWildcardActive {
			t.Fatalf("expected ErrWildcardActive, got %v", err)
		}
	})
}

func TestDeselect(t *testing.T) {
	t.Run("deselecting a view cascades to its dependents", func(t *testing.T) {
		set := permissions.NewSet(
			permissions.EventsView,
			permissions.GalleryView,
			permissions.VereinEventsCreate,
			permissions.VereinEventsEdit,
			permissions.VereinEventsDelete,
			permissions.VereinEventsCancel,
		)
		set, err := permissions.Deselect(set, permissions.EventsView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, p := range []string{
			permissions.EventsView,
			permissions.VereinEventsCreate,
			permissions.VereinEventsEdit,
			permissions.VereinEventsDelete,
			permissions.VereinEventsCancel,
		} {
			if set.Has(p) {
				t.Fatalf("expected %q removed, set = %v", p, set.Slice())
			}
		}
		// gallery.view was a dependency of verein.events.create, not a
		// dependent of events.view; it stays until deselected itself.
		if !set.Has(permissions.GalleryView) {
			t.Fatalf("gallery.view should survive the cascade, set = %v", set.Slice())
		}
	})

	t.Run("select then deselect round trip", func(t *testing.T) {
		set, _ := permissions.Select(permissions.NewSet(), permissions.VereinEventsCreate)
		set, err := permissions.Deselect(set, permissions.EventsView)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Has(permissions.VereinEventsCreate) || set.Has(permissions.EventsView) {
			t.Fatalf("cascade incomplete: %v", set.Slice())
		}
		if !set.Has(permissions.GalleryView) {
			t.Fatalf("gallery.view should remain: %v", set.Slice())
		}
	})

	t.Run("deselecting an action leaves its view", func(t *testing.T) {
		set, _ := permissions.Select(permissions.NewSet(), permissions.GalleryModerate)
		set, err := permissions.Deselect(set, permissions.GalleryModerate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !set.Has(permissions.GalleryView) {
			t.Fatalf("gallery.view should remain: %v", set.Slice())
		}
	})

	t.Run("deselecting the wildcard unlocks editing", func(t *testing.T) {
		set, err := permissions.Deselect(permissions.NewSet(permissions.Wildcard), permissions.Wildcard)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set) != 0 {
			t.Fatalf("expected empty set, got %v", set.Slice())
		}
		if _, err := permissions.Select(set, permissions.EventsCreate); err != nil {
			t.Fatalf("expected editing unlocked, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	set := permissions.NewSet(permissions.Wildcard, permissions.EventsView, permissions.GalleryView)
	if got := permissions.Normalize(set).Slice(); !reflect.DeepEqual(got, []string{permissions.Wildcard}) {
		t.Fatalf("got %v, want wildcard only", got)
	}
}
