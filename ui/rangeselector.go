package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/qyinm/gemtui/types"
)

// rangeFocus identifies which control of the price panel has focus.
// focusNone means the panel is not focused.
type rangeFocus int

const (
	focusNone rangeFocus = iota
	focusMinSlider
	focusMaxSlider
	focusMinField
	focusMaxField
)

func (f rangeFocus) isField() bool {
	return f == focusMinField || f == focusMaxField
}

const sliderWidth = 40

// RangeSelector edits a price range through two sliders and two numeric
// fields. Edits go to a local draft. A drag or a blur commits the draft, and
// the root model collects it with TakeCommit within the same Update.
type RangeSelector struct {
	committed types.PriceRange
	draft     types.PriceRange
	pending   bool
	focus     rangeFocus
	minInput  textinput.Model
	maxInput  textinput.Model
	currency  string
}

// NewRangeSelector seeds the draft from committed.
func NewRangeSelector(committed types.PriceRange, currency string) RangeSelector {
	newInput := func() textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 6
		ti.Width = 8
		return ti
	}
	s := RangeSelector{
		minInput: newInput(),
		maxInput: newInput(),
		currency: currency,
	}
	s.Sync(committed)
	return s
}

// Committed returns the last committed or synced range.
func (s RangeSelector) Committed() types.PriceRange { return s.committed }

// Draft returns the in-progress range.
func (s RangeSelector) Draft() types.PriceRange { return s.draft }

// Focus returns the focused control.
func (s RangeSelector) Focus() rangeFocus { return s.focus }

// Sync replaces both the committed range and the draft. It is meant for
// resets that do not come from the panel itself.
func (s *RangeSelector) Sync(committed types.PriceRange) {
	s.committed = committed
	s.draft = committed
	s.pending = false
	s.resetInputs()
}

func (s *RangeSelector) resetInputs() {
	s.minInput.SetValue(strconv.Itoa(s.draft.Min))
	s.maxInput.SetValue(strconv.Itoa(s.draft.Max))
	s.minInput.CursorEnd()
	s.maxInput.CursorEnd()
}

// DragLow moves the low slider handle. It is applied only when v stays in
// the domain and below the high handle.
func (s *RangeSelector) DragLow(v int) bool {
	if v < types.PriceFloor || v >= s.draft.Max {
		return false
	}
	s.draft.Min = v
	s.resetInputs()
	return true
}

// DragHigh moves the high slider handle. It is applied only when v stays in
// the domain and above the low handle.
func (s *RangeSelector) DragHigh(v int) bool {
	if v > types.PriceCeiling || v <= s.draft.Min {
		return false
	}
	s.draft.Max = v
	s.resetInputs()
	return true
}

// EditMin applies a typed minimum. Rejected values leave the draft as is.
func (s *RangeSelector) EditMin(v int) bool {
	if v < types.PriceFloor || v >= s.draft.Max {
		return false
	}
	s.draft.Min = v
	return true
}

// EditMax applies a typed maximum. Rejected values leave the draft as is.
func (s *RangeSelector) EditMax(v int) bool {
	if v <= s.draft.Min || v > types.PriceCeiling {
		return false
	}
	s.draft.Max = v
	return true
}

// applyField parses the text of field f into the draft. Unparsable or
// rejected input snaps the field back to the draft value.
func (s *RangeSelector) applyField(f rangeFocus) bool {
	var (
		in     *textinput.Model
		accept func(int) bool
	)
	switch f {
	case focusMinField:
		in, accept = &s.minInput, s.EditMin
	case focusMaxField:
		in, accept = &s.maxInput, s.EditMax
	default:
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(in.Value()))
	ok := err == nil && accept(v)
	s.resetInputs()
	return ok
}

// commit marks the whole draft pair as committed.
func (s *RangeSelector) commit() {
	s.committed = s.draft
	s.pending = true
}

// TakeCommit returns the range committed since the previous call, if any.
func (s *RangeSelector) TakeCommit() (types.PriceRange, bool) {
	if !s.pending {
		return types.PriceRange{}, false
	}
	s.pending = false
	return s.committed, true
}

// SetFocus moves focus inside the panel. Leaving a field applies its pending
// text and commits the draft, whether or not anything changed.
func (s *RangeSelector) SetFocus(f rangeFocus) tea.Cmd {
	var cmds []tea.Cmd
	if s.focus.isField() && s.focus != f {
		s.applyField(s.focus)
		s.commit()
	}
	s.focus = f
	s.minInput.Blur()
	s.maxInput.Blur()
	switch f {
	case focusMinField:
		cmds = append(cmds, s.minInput.Focus())
	case focusMaxField:
		cmds = append(cmds, s.maxInput.Focus())
	}
	return tea.Batch(cmds...)
}

// Update handles keys while the panel is focused.
func (s RangeSelector) Update(msg tea.Msg) (RangeSelector, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch s.focus {
	case focusMinSlider, focusMaxSlider:
		return s.updateSlider(keyMsg)
	case focusMinField, focusMaxField:
		return s.updateField(keyMsg)
	}
	return s, nil
}

func (s RangeSelector) updateSlider(msg tea.KeyMsg) (RangeSelector, tea.Cmd) {
	steps := 0
	switch {
	case key.Matches(msg, keys.Decrease):
		steps = -1
	case key.Matches(msg, keys.Increase):
		steps = 1
	case key.Matches(msg, keys.DecreaseBig):
		steps = -10
	case key.Matches(msg, keys.IncreaseBig):
		steps = 10
	default:
		return s, nil
	}

	before := s.draft
	if s.focus == focusMinSlider {
		s.DragLow(clampPrice(stepValue(s.draft.Min, steps)))
	} else {
		s.DragHigh(clampPrice(stepValue(s.draft.Max, steps)))
	}
	if s.draft != before {
		s.commit()
	}
	return s, nil
}

func (s RangeSelector) updateField(msg tea.KeyMsg) (RangeSelector, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		s.applyField(s.focus)
		return s, nil
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return s, nil
			}
		}
	}

	var cmd tea.Cmd
	if s.focus == focusMinField {
		s.minInput, cmd = s.minInput.Update(msg)
	} else {
		s.maxInput, cmd = s.maxInput.Update(msg)
	}
	return s, cmd
}

// stepValue moves v by steps slider increments, snapping to the step grid
// the way a range input does.
func stepValue(v, steps int) int {
	if steps == 0 {
		return v
	}
	rem := v % types.PriceStep
	if steps > 0 {
		return v - rem + steps*types.PriceStep
	}
	if rem != 0 {
		return v - rem + (steps+1)*types.PriceStep
	}
	return v + steps*types.PriceStep
}

func clampPrice(v int) int {
	if v < types.PriceFloor {
		return types.PriceFloor
	}
	if v > types.PriceCeiling {
		return types.PriceCeiling
	}
	return v
}

// View renders the panel. The summary line always shows the committed range.
func (s RangeSelector) View() string {
	label := PanelLabelStyle.Render("Price Range (" + s.currency + ")")

	field := func(name string, in textinput.Model, focused bool) string {
		style := FieldStyle
		if focused {
			style = FieldFocusedStyle
		}
		return lipgloss.JoinHorizontal(lipgloss.Center,
			DimStyle.Render(name+" "),
			style.Render(in.View()),
		)
	}
	fields := lipgloss.JoinHorizontal(lipgloss.Center,
		field("Min", s.minInput, s.focus == focusMinField),
		"   ",
		field("Max", s.maxInput, s.focus == focusMaxField),
	)

	low := "Min " + renderSlider(s.draft.Min, s.focus == focusMinSlider)
	high := "Max " + renderSlider(s.draft.Max, s.focus == focusMaxSlider)
	floor := formatPrice(s.currency, types.PriceFloor)
	ceiling := formatPrice(s.currency, types.PriceCeiling)
	gap := sliderWidth - len([]rune(floor)) - len([]rune(ceiling))
	if gap < 1 {
		gap = 1
	}
	scale := DimStyle.Render("    " + floor + strings.Repeat(" ", gap) + ceiling)

	selected := SelectedRangeStyle.Render("Selected Range: " +
		formatPrice(s.currency, float64(s.committed.Min)) + " - " +
		formatPrice(s.currency, float64(s.committed.Max)))

	return lipgloss.JoinVertical(lipgloss.Left, label, fields, low, high, scale, selected)
}

func renderSlider(v int, focused bool) string {
	pos := v * (sliderWidth - 1) / types.PriceCeiling
	if pos < 0 {
		pos = 0
	}
	if pos > sliderWidth-1 {
		pos = sliderWidth - 1
	}
	handle := SliderHandleStyle
	if focused {
		handle = SliderHandleFocusedStyle
	}
	return SliderTrackStyle.Render(strings.Repeat("─", pos)) +
		handle.Render("●") +
		SliderTrackStyle.Render(strings.Repeat("─", sliderWidth-1-pos))
}
