package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/qyinm/gemtui/imageref"
	"github.com/qyinm/gemtui/types"
)

// listState is the render state of the result list.
type listState int

const (
	stateLoading listState = iota
	stateEmpty
	statePopulated
)

func (s listState) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateEmpty:
		return "empty"
	case statePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// ResultList renders the products handed to it by the root model. Image
// references go through the injected resolver.
type ResultList struct {
	list     list.Model
	spinner  spinner.Model
	resolver imageref.ImageResolver
	loading  bool
	width    int
	height   int
}

// NewResultList creates an empty list.
func NewResultList(resolver imageref.ImageResolver, currency string) ResultList {
	l := list.New([]list.Item{}, ProductDelegate{currency: currency}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = TitleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(DraculaPink)

	return ResultList{list: l, spinner: s, resolver: resolver}
}

// SetLoading sets the loading flag.
func (r *ResultList) SetLoading(loading bool) {
	r.loading = loading
}

// SetProducts replaces the whole result set. Image slots start fresh.
func (r *ResultList) SetProducts(products []types.Product) tea.Cmd {
	items := make([]list.Item, 0, len(products))
	for _, p := range products {
		items = append(items, productItem{product: p, image: imageref.NewSlot(r.resolver, p.Image())})
	}
	r.list.Title = fmt.Sprintf("Comparison Results (%d items)", len(items))
	r.list.ResetSelected()
	return r.list.SetItems(items)
}

// Replace swaps the product with the same id, keeping its image slot when
// the raw image reference is unchanged.
func (r *ResultList) Replace(p types.Product) (tea.Cmd, bool) {
	for i, item := range r.list.Items() {
		it, ok := item.(productItem)
		if !ok || it.product.ID() != p.ID() {
			continue
		}
		slot := it.image
		if it.product.Image() != p.Image() {
			slot = imageref.NewSlot(r.resolver, p.Image())
		}
		return r.list.SetItem(i, productItem{product: p, image: slot}), true
	}
	return nil, false
}

// Slot returns the image slot of the product with id, if listed.
func (r ResultList) Slot(id string) *imageref.Slot {
	for _, item := range r.list.Items() {
		if it, ok := item.(productItem); ok && it.product.ID() == id {
			return it.image
		}
	}
	return nil
}

// Selected returns the highlighted item.
func (r ResultList) Selected() (productItem, bool) {
	if r.State() != statePopulated {
		return productItem{}, false
	}
	it, ok := r.list.SelectedItem().(productItem)
	return it, ok
}

// Len returns the number of listed products.
func (r ResultList) Len() int {
	return len(r.list.Items())
}

// State derives the render state from the inputs.
func (r ResultList) State() listState {
	switch {
	case r.loading:
		return stateLoading
	case len(r.list.Items()) == 0:
		return stateEmpty
	default:
		return statePopulated
	}
}

// SetSize sets the area available to the list.
func (r *ResultList) SetSize(width, height int) {
	r.width, r.height = width, height
	r.list.SetSize(width, height)
}

// Update forwards navigation keys and spinner ticks.
func (r ResultList) Update(msg tea.Msg) (ResultList, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !r.loading {
			return r, nil
		}
		r.spinner, cmd = r.spinner.Update(msg)
	default:
		if r.State() == statePopulated {
			r.list, cmd = r.list.Update(msg)
		}
	}
	return r, cmd
}

// View renders exactly one of the three states.
func (r ResultList) View() string {
	switch r.State() {
	case stateLoading:
		return EmptyStateStyle.Render(r.spinner.View() + " Fetching products...")
	case stateEmpty:
		return EmptyStateStyle.Render(
			"No products found in the selected price range.\n" +
				"Try adjusting your filters or price range.")
	default:
		return r.list.View()
	}
}
