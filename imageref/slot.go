package imageref

// Slot is the render-time image state of one product card.
type Slot struct {
	src         string
	placeholder string
	fellBack    bool
}

// NewSlot resolves raw through r and returns a fresh Slot.
func NewSlot(r ImageResolver, raw string) *Slot {
	return &Slot{src: r.Resolve(raw), placeholder: r.Placeholder()}
}

// Src returns the source currently displayed.
func (s *Slot) Src() string { return s.src }

// FellBack reports whether the placeholder has replaced the original source.
func (s *Slot) FellBack() bool { return s.fellBack }

// Fail records a load failure. The first failure swaps in the placeholder and
// returns true. Later failures, including the placeholder's own, return false
// and change nothing.
func (s *Slot) Fail() bool {
	if s.fellBack {
		return false
	}
	s.fellBack = true
	if s.src == s.placeholder {
		return false
	}
	s.src = s.placeholder
	return true
}
