package marks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clipmark/internal/crop"
	"clipmark/internal/media"
	"clipmark/internal/services"
)

func testVideo() media.VideoReference {
	return media.VideoReference{
		Path:     "/videos/session.mp4",
		Duration: 10.0,
		Rate:     media.Rational{Num: 25, Den: 1},
		Width:    1920,
		Height:   1080,
	}
}

func TestCreateSelectsZeroLengthRange(t *testing.T) {
	s := NewStore(testVideo())
	r := s.Create(2.5)
	if r.Start != 2.5 || r.End != 2.5 {
		t.Fatalf("expected zero-length range at 2.5, got [%v,%v]", r.Start, r.End)
	}
	if !r.IsZeroLength() {
		t.Fatal("new range should be zero-length")
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != r.ID {
		t.Fatal("new range should be selected")
	}
}

func TestUpdateSwapsInvertedTimes(t *testing.T) {
	s := NewStore(testVideo())
	r := s.Create(5.0)
	updated, err := s.SetEnd(r.ID, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Start != 2.0 || updated.End != 5.0 {
		t.Fatalf("expected swap to [2,5], got [%v,%v]", updated.Start, updated.End)
	}
}

func TestUpdateUnknownRange(t *testing.T) {
	s := NewStore(testVideo())
	if _, err := s.SetStart("missing", 1.0); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAdjustsSelection(t *testing.T) {
	s := NewStore(testVideo())
	a := s.Create(1.0)
	b := s.Create(2.0)
	if err := s.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != a.ID {
		t.Fatal("selection should fall back to remaining range")
	}
	if err := s.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("empty store should have no selection")
	}
	if err := s.Delete(a.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPreservesCreationOrder(t *testing.T) {
	s := NewStore(testVideo())
	a := s.Create(3.0)
	b := s.Create(1.0)
	c := s.Create(2.0)
	got := s.List()
	want := []string{a.ID, b.ID, c.ID}
	for i, r := range got {
		if r.ID != want[i] {
			t.Fatalf("order changed at %d", i)
		}
	}
}

func TestListSnapshotIsDetached(t *testing.T) {
	s := NewStore(testVideo())
	r := s.Create(1.0)
	if _, err := s.SetCrop(r.ID, &crop.Rect{X: 0.1, Y: 0.1, W: 0.5, H: 0.5}); err != nil {
		t.Fatal(err)
	}
	snap := s.List()
	snap[0].Crop.X = 0.9
	snap[0].Label = "mutated"

	fresh, err := s.Get(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Crop.X != 0.1 || fresh.Label != "" {
		t.Fatal("store state leaked through snapshot")
	}
}

func TestReorder(t *testing.T) {
	s := NewStore(testVideo())
	a := s.Create(1.0)
	b := s.Create(2.0)
	c := s.Create(3.0)
	if err := s.Select(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Reorder(c.ID, 0); err != nil {
		t.Fatal(err)
	}
	got := s.List()
	want := []string{c.ID, a.ID, b.ID}
	for i, r := range got {
		if r.ID != want[i] {
			t.Fatalf("order at %d: got %s want %s", i, r.ID, want[i])
		}
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != b.ID {
		t.Fatal("selection should follow the range, not the index")
	}
}

func TestMarkInOutCreatesWhenEmpty(t *testing.T) {
	s := NewStore(testVideo())
	r := s.MarkIn(2.0)
	if s.Len() != 1 {
		t.Fatal("mark-in on empty store should create a range")
	}
	out := s.MarkOut(5.0)
	if out.ID != r.ID || out.Start != 2.0 || out.End != 5.0 {
		t.Fatalf("expected [2,5] on the created range, got [%v,%v]", out.Start, out.End)
	}
}

func TestMarkOutBeforeInSwaps(t *testing.T) {
	s := NewStore(testVideo())
	s.Create(5.0)
	r := s.MarkOut(1.0)
	if r.Start != 1.0 || r.End != 5.0 {
		t.Fatalf("expected swap to [1,5], got [%v,%v]", r.Start, r.End)
	}
}

func TestValidateBoundsAndCrop(t *testing.T) {
	video := testVideo()
	s := NewStore(video)
	r := s.Create(1.0)

	// Out-of-bounds edits commit but fail validation.
	if _, err := s.SetEnd(r.ID, 12.0); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(r.ID); !errors.Is(err, services.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}

	if _, err := s.SetEnd(r.ID, 5.0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetCrop(r.ID, &crop.Rect{X: 0.8, Y: 0.0, W: 0.5, H: 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(r.ID); !errors.Is(err, services.ErrInvalidCrop) {
		t.Fatalf("expected ErrInvalidCrop, got %v", err)
	}

	if _, err := s.SetCrop(r.ID, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(r.ID); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
}

func TestLoadSelectsFirst(t *testing.T) {
	s := NewStore(testVideo())
	s.Load([]Range{
		{ID: "one", Start: 1, End: 2, Label: "walk"},
		{Start: 3, End: 4},
	})
	if s.Len() != 2 {
		t.Fatalf("expected 2 ranges, got %d", s.Len())
	}
	sel, ok := s.Selected()
	if !ok || sel.ID != "one" {
		t.Fatal("first loaded range should be selected")
	}
	second := s.List()[1]
	if second.ID == "" {
		t.Fatal("loaded range without an id should get one")
	}
}

func TestSidecarLabel(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(filepath.Join(dir, "clip.txt"), []byte("walk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := SidecarLabel(video); got != "walk" {
		t.Fatalf("expected label %q, got %q", "walk", got)
	}
	if got := SidecarLabel(filepath.Join(dir, "other.mp4")); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}
