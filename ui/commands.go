package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/gemtui/types"
)

// Message types for async operations

// productsMsg ends a fetch cycle. seq identifies the cycle.
type productsMsg struct {
	seq      int
	filter   types.Filter
	products []types.Product
	err      error
}

type productDetailMsg struct {
	requestID int
	product   types.Product
	err       error
}

type refreshMsg struct {
	seq     int
	id      string
	product types.Product
	err     error
}

type imageProbeMsg struct {
	id  string
	src string
	err error
}

type linkActionMsg struct {
	action string
	err    error
}

// imageProber is satisfied by *imageref.Prober.
type imageProber interface {
	Probe(ctx context.Context, src string) error
}

// fetchProducts returns a tea.Cmd that runs one fetch cycle asynchronously
func fetchProducts(ctx context.Context, source types.ProductSource, filter types.Filter, seq int) tea.Cmd {
	return func() tea.Msg {
		products, err := source.ListProducts(ctx, filter.Query())
		return productsMsg{seq: seq, filter: filter, products: products, err: err}
	}
}

// fetchProductDetail returns a tea.Cmd that fetches one product asynchronously
func fetchProductDetail(ctx context.Context, source types.ProductSource, id string, requestID int) tea.Cmd {
	return func() tea.Msg {
		product, err := source.GetProduct(ctx, id)
		return productDetailMsg{requestID: requestID, product: product, err: err}
	}
}

func refreshProduct(ctx context.Context, source types.ProductSource, id string, seq int) tea.Cmd {
	return func() tea.Msg {
		product, err := source.RefreshProduct(ctx, id)
		return refreshMsg{seq: seq, id: id, product: product, err: err}
	}
}

func probeImage(ctx context.Context, prober imageProber, id, src string) tea.Cmd {
	return func() tea.Msg {
		return imageProbeMsg{id: id, src: src, err: prober.Probe(ctx, src)}
	}
}

func runLinkAction(action string, fn func(string) error, link string) tea.Cmd {
	return func() tea.Msg {
		return linkActionMsg{action: action, err: fn(link)}
	}
}
