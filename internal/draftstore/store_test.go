package draftstore

import (
	"context"
	"testing"

	"github.com/Singhtanuhub/civicstrack5/internal/logging"
	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestDraft_SaveGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := &Draft{
		Title:       "Leaking hydrant",
		Description: "Corner of Oak and 3rd",
		Category:    "Water",
		Latitude:    12.97,
		Longitude:   77.59,
		Anonymous:   true,
		Images:      []string{"/tmp/hydrant.jpg"},
	}
	if err := s.SaveDraft(ctx, d); err != nil {
		t.Fatalf("save: %v", err)
	}
	if d.ID == "" {
		t.Fatal("save did not assign an id")
	}
	if d.CreatedAt.IsZero() || d.UpdatedAt.IsZero() {
		t.Error("save did not assign timestamps")
	}

	got, err := s.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("draft not found after save")
	}
	if got.Title != d.Title || got.Category != d.Category || !got.Anonymous {
		t.Errorf("got %+v", got)
	}
	if len(got.Images) != 1 || got.Images[0] != "/tmp/hydrant.jpg" {
		t.Errorf("images = %v", got.Images)
	}

	if err := s.DeleteDraft(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = s.GetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("draft still present after delete")
	}

	// Deleting again is a no-op.
	if err := s.DeleteDraft(ctx, d.ID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestDraft_ListOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if err := s.SaveDraft(ctx, &Draft{Title: title, Category: "Roads"}); err != nil {
			t.Fatalf("save %s: %v", title, err)
		}
	}

	drafts, err := s.ListDrafts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("got %d drafts, want 3", len(drafts))
	}
}

func TestGetDraft_Missing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetDraft(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestIssueCache_ReplaceAndRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	issues := []civictrack.Issue{
		{ID: 1, Title: "Pothole", Status: civictrack.StatusReported, Upvotes: 4},
		{ID: 2, Title: "Streetlight", Status: civictrack.StatusInProgress},
	}
	if err := s.ReplaceCache(ctx, issues); err != nil {
		t.Fatalf("replace: %v", err)
	}

	cached, fetchedAt, err := s.CachedIssues(ctx)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("got %d cached issues, want 2", len(cached))
	}
	if cached[0].Title != "Pothole" || cached[0].Upvotes != 4 {
		t.Errorf("cached[0] = %+v", cached[0])
	}
	if fetchedAt.IsZero() {
		t.Error("fetchedAt is zero")
	}

	// A new fetch replaces the cache wholesale.
	if err := s.ReplaceCache(ctx, issues[:1]); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	cached, _, err = s.CachedIssues(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 1 {
		t.Errorf("got %d cached issues after replace, want 1", len(cached))
	}
}

func TestIssueCache_Empty(t *testing.T) {
	s := newTestStore(t)

	cached, fetchedAt, err := s.CachedIssues(context.Background())
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if cached != nil || !fetchedAt.IsZero() {
		t.Errorf("empty cache returned %v at %v", cached, fetchedAt)
	}
}
