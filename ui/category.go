package ui

import (
	"strings"

	"github.com/qyinm/gemtui/types"
)

// CategorySelector is a single selection over types.AllCategories.
type CategorySelector struct {
	index int
}

// NewCategorySelector starts on c.
func NewCategorySelector(c types.Category) CategorySelector {
	s := CategorySelector{}
	s.Select(c)
	return s
}

// Selected returns the current category.
func (s CategorySelector) Selected() types.Category {
	return types.AllCategories[s.index]
}

// Select jumps to c and reports whether the selection changed.
func (s *CategorySelector) Select(c types.Category) bool {
	for i, cat := range types.AllCategories {
		if cat == c {
			changed := i != s.index
			s.index = i
			return changed
		}
	}
	return false
}

// Next advances with wrap-around.
func (s *CategorySelector) Next() types.Category {
	s.index = (s.index + 1) % len(types.AllCategories)
	return s.Selected()
}

// Prev steps back with wrap-around.
func (s *CategorySelector) Prev() types.Category {
	n := len(types.AllCategories)
	s.index = (s.index - 1 + n) % n
	return s.Selected()
}

// View renders the tab bar.
func (s CategorySelector) View() string {
	tabs := make([]string, 0, len(types.AllCategories))
	for i, c := range types.AllCategories {
		if i == s.index {
			tabs = append(tabs, ActiveTabStyle.Render(c.Label()))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(c.Label()))
		}
	}
	return PanelLabelStyle.Render("Filter by Type") + " " + strings.Join(tabs, DimStyle.Render("│"))
}
