package marks

import (
	"github.com/google/uuid"

	"clipmark/internal/crop"
	"clipmark/internal/media"
	"clipmark/internal/services"
)

// Store is the ordered, mutable collection of ranges for one video. It is
// owned by the interactive context; the export path only ever sees
// immutable snapshots taken via List.
type Store struct {
	video    media.VideoReference
	ranges   []Range
	selected int
}

// NewStore builds an empty store for the given video.
func NewStore(video media.VideoReference) *Store {
	return &Store{video: video, selected: -1}
}

// Video returns the owning video reference.
func (s *Store) Video() media.VideoReference {
	return s.video
}

// Len returns the number of ranges.
func (s *Store) Len() int {
	return len(s.ranges)
}

// Create appends a new zero-length range at the given time, selects it, and
// returns a snapshot.
func (s *Store) Create(atTime float64) Range {
	r := Range{
		ID:    uuid.NewString(),
		Start: atTime,
		End:   atTime,
	}
	s.ranges = append(s.ranges, r)
	s.selected = len(s.ranges) - 1
	return r.clone()
}

// Load replaces the store contents with previously persisted ranges,
// keeping their order. The first range becomes selected.
func (s *Store) Load(ranges []Range) {
	s.ranges = make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.ranges = append(s.ranges, r.clone())
	}
	if len(s.ranges) > 0 {
		s.selected = 0
	} else {
		s.selected = -1
	}
}

// Get returns a snapshot of one range.
func (s *Store) Get(id string) (Range, error) {
	idx := s.index(id)
	if idx < 0 {
		return Range{}, services.Wrap(services.ErrNotFound, "marks", "get range", id, nil)
	}
	return s.ranges[idx].clone(), nil
}

// Update applies a mutation to one range and commits it. If the edit leaves
// start > end the two are swapped: the operator marked an interval, not an
// order. This is the one auto-repair; bounds and crop violations stay
// advisory here and are enforced at export job construction.
func (s *Store) Update(id string, apply func(*Range)) (Range, error) {
	idx := s.index(id)
	if idx < 0 {
		return Range{}, services.Wrap(services.ErrNotFound, "marks", "update range", id, nil)
	}
	r := &s.ranges[idx]
	apply(r)
	r.ID = id // the identifier is not editable
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r.clone(), nil
}

// SetStart moves the range's in-point.
func (s *Store) SetStart(id string, t float64) (Range, error) {
	return s.Update(id, func(r *Range) { r.Start = t })
}

// SetEnd moves the range's out-point.
func (s *Store) SetEnd(id string, t float64) (Range, error) {
	return s.Update(id, func(r *Range) { r.End = t })
}

// SetLabel replaces the range's free-text label.
func (s *Store) SetLabel(id string, label string) (Range, error) {
	return s.Update(id, func(r *Range) { r.Label = label })
}

// SetCrop attaches a crop rectangle; nil clears it.
func (s *Store) SetCrop(id string, rect *crop.Rect) (Range, error) {
	return s.Update(id, func(r *Range) {
		if rect == nil {
			r.Crop = nil
			return
		}
		c := *rect
		r.Crop = &c
	})
}

// Delete removes a range. Selection moves to the nearest remaining range.
func (s *Store) Delete(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return services.Wrap(services.ErrNotFound, "marks", "delete range", id, nil)
	}
	s.ranges = append(s.ranges[:idx], s.ranges[idx+1:]...)
	if len(s.ranges) == 0 {
		s.selected = -1
	} else if s.selected >= len(s.ranges) {
		s.selected = len(s.ranges) - 1
	} else if s.selected > idx {
		s.selected--
	}
	return nil
}

// List returns an ordered snapshot of all ranges. The snapshot is detached:
// later edits to the store do not affect it.
func (s *Store) List() []Range {
	out := make([]Range, 0, len(s.ranges))
	for _, r := range s.ranges {
		out = append(out, r.clone())
	}
	return out
}

// Select makes the given range the target of mark-in/mark-out.
func (s *Store) Select(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return services.Wrap(services.ErrNotFound, "marks", "select range", id, nil)
	}
	s.selected = idx
	return nil
}

// Selected returns the active range, if any.
func (s *Store) Selected() (Range, bool) {
	if s.selected < 0 || s.selected >= len(s.ranges) {
		return Range{}, false
	}
	return s.ranges[s.selected].clone(), true
}

// Reorder moves a range to a new position in the list, clamping the target
// index into bounds.
func (s *Store) Reorder(id string, newIndex int) error {
	idx := s.index(id)
	if idx < 0 {
		return services.Wrap(services.ErrNotFound, "marks", "reorder range", id, nil)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(s.ranges) {
		newIndex = len(s.ranges) - 1
	}
	var selectedID string
	if s.selected >= 0 {
		selectedID = s.ranges[s.selected].ID
	}

	moved := s.ranges[idx]
	rest := append(s.ranges[:idx], s.ranges[idx+1:]...)
	s.ranges = append(rest[:newIndex], append([]Range{moved}, rest[newIndex:]...)...)

	if selectedID != "" {
		s.selected = s.index(selectedID)
	}
	return nil
}

// MarkIn writes the current time into the selected range's start, creating
// a range first when none is selected.
func (s *Store) MarkIn(t float64) Range {
	r, ok := s.Selected()
	if !ok {
		r = s.Create(t)
		return r
	}
	updated, _ := s.SetStart(r.ID, t)
	return updated
}

// MarkOut writes the current time into the selected range's end, creating
// a range first when none is selected.
func (s *Store) MarkOut(t float64) Range {
	r, ok := s.Selected()
	if !ok {
		r = s.Create(t)
		return r
	}
	updated, _ := s.SetEnd(r.ID, t)
	return updated
}

// Validate checks one stored range against the owning video.
func (s *Store) Validate(id string) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	return Validate(r, s.video)
}

func (s *Store) index(id string) int {
	for i := range s.ranges {
		if s.ranges[i].ID == id {
			return i
		}
	}
	return -1
}
