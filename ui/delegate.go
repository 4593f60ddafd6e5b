package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/qyinm/gemtui/imageref"
	"github.com/qyinm/gemtui/types"
)

// productItem pairs a product with its render-time image state.
type productItem struct {
	product types.Product
	image   *imageref.Slot
}

func (i productItem) FilterValue() string { return i.product.Name() }

// Compile-time check that productItem implements list.Item
var _ list.Item = productItem{}

// ProductDelegate renders one product card
type ProductDelegate struct {
	currency string
}

// Height returns the height of a card (3 lines)
func (d ProductDelegate) Height() int {
	return 3
}

// Spacing returns the spacing between cards
func (d ProductDelegate) Spacing() int {
	return 1
}

// Update handles updates for the delegate (no-op for products)
func (d ProductDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a single product card
func (d ProductDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(productItem)
	if !ok {
		return
	}
	p := it.product
	isSelected := index == m.Index()

	// Gutter marks the selection; Firefly listings get a gold bar instead of a blank.
	gutter := "  "
	switch {
	case isSelected:
		gutter = lipgloss.NewStyle().Foreground(DraculaPink).Render("▌ ")
	case p.IsFirefly():
		gutter = lipgloss.NewStyle().Foreground(FireflyGold).Render("▏ ")
	}
	width := m.Width() - 2
	if width < 10 {
		width = 10
	}

	// Line 1: [Firefly] Name ........ ₹price
	badge := ""
	badgeWidth := 0
	if p.IsFirefly() {
		badge = FireflyBadgeStyle.Render("Firefly") + " "
		badgeWidth = lipgloss.Width(badge)
	}
	price := formatPrice(d.currency, p.Price())
	priceWidth := runewidth.StringWidth(price) + 1
	nameWidth := width - badgeWidth - priceWidth
	name := padRight(truncate(p.Name(), nameWidth), nameWidth)

	nameStyle := lipgloss.NewStyle().Foreground(DraculaCyan)
	if isSelected {
		nameStyle = nameStyle.Foreground(DraculaPink).Bold(true)
	} else if p.IsFirefly() {
		nameStyle = nameStyle.Foreground(FireflyGold).Bold(true)
	}
	line1 := badge + nameStyle.Render(name) + " " + PriceStyle.Render(price)

	// Line 2: store • description
	store := p.Store()
	desc := plainText(p.Description())
	storeWidth := runewidth.StringWidth(store)
	line2 := StoreStyle.Render(truncate(store, width))
	if desc != "" && storeWidth+3 < width {
		line2 += DimStyle.Render(" • ") + lipgloss.NewStyle().Foreground(DraculaForeground).
			Render(truncate(desc, width-storeWidth-3))
	}

	// Line 3: image + link
	src := it.image.Src()
	if it.image.FellBack() {
		src += " (fallback)"
	}
	line3 := DimStyle.Render(truncate("img "+src+"  ↗ "+p.Link(), width))

	fmt.Fprint(w, gutter+line1+"\n"+gutter+line2+"\n"+gutter+line3)
}
