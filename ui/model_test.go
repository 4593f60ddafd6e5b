package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/imageref"
	"github.com/qyinm/gemtui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const assetBase = "https://shop.example/static/"

func newTestModel(src *fakeSource, opts ...Option) Model {
	base := []Option{
		WithResolver(imageref.NewResolver("", imageref.AssetBase(assetBase))),
		WithProber(fakeProber{}),
		WithBrowser(func(string) error { return nil }),
		WithClipboard(func(string) error { return nil }),
	}
	next, _ := NewModel(src, append(base, opts...)...).Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	return next.(Model)
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	return settle(t, m, m.Init())
}

func press(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return runes(s)
}

func TestInitRequestsDefaultRange(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := newTestModel(src)

	assert.True(t, m.Loading())
	assert.Equal(t, stateLoading, m.results.State())
	assert.Contains(t, m.View(), "Fetching products...")

	m = start(t, m)

	q := src.lastQuery()
	require.NotNil(t, q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 5000, *q.MinPrice)
	assert.Equal(t, 100000, *q.MaxPrice)
	assert.Empty(t, q.Category)

	assert.False(t, m.Loading())
	assert.Empty(t, m.Err())
	assert.Len(t, m.Products(), 2)
	assert.Equal(t, statePopulated, m.results.State())

	view := m.View()
	assert.Contains(t, view, "Comparison Results (2 items)")
	assert.Contains(t, view, "Firefly Solitaire Ring")
	assert.Contains(t, view, "₹60,000")
	assert.Contains(t, view, "Selected Range: ₹5,000 - ₹100,000")
}

func TestEmptyResultShowsEmptyState(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{}))

	assert.False(t, m.Loading())
	assert.Empty(t, m.Err())
	assert.Equal(t, stateEmpty, m.results.State())
	assert.Contains(t, m.View(), "No products found in the selected price range.")
}

func TestFailedFetchShowsErrorAndClearsProducts(t *testing.T) {
	src := &fakeSource{err: &api.RequestFailedError{Method: "GET", URL: "http://x/products", StatusCode: 500}}
	m := start(t, newTestModel(src))

	assert.False(t, m.Loading())
	assert.Equal(t, fetchFailedMessage, m.Err())
	assert.Empty(t, m.Products())
	assert.Contains(t, m.View(), fetchFailedMessage)
	assert.NotContains(t, m.View(), "No products found")

	// the next cycle clears the error
	src.mu.Lock()
	src.err = nil
	src.products = sampleProducts()
	src.mu.Unlock()

	m, cmd := send(t, m, press("c"))
	assert.True(t, m.Loading())
	assert.Empty(t, m.Err())
	m = settle(t, m, cmd)
	assert.Empty(t, m.Err())
	assert.Len(t, m.Products(), 2)
}

func TestStaleResponseDiscarded(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := newTestModel(src)
	_ = m.Init()

	// a second cycle starts before the first answers
	m, _ = send(t, m, press("c"))
	require.Equal(t, 2, m.seq)

	m, _ = send(t, m, productsMsg{seq: 1, filter: types.Filter{Range: types.DefaultRange}, products: sampleProducts()})
	assert.True(t, m.Loading())
	assert.Empty(t, m.Products())

	only := sampleProducts()[:1]
	m, _ = send(t, m, productsMsg{seq: 2, filter: m.Filter(), products: only})
	assert.False(t, m.Loading())
	assert.Len(t, m.Products(), 1)

	// a late error from the first cycle changes nothing
	m, _ = send(t, m, productsMsg{seq: 1, err: assert.AnError})
	assert.Empty(t, m.Err())
	assert.Len(t, m.Products(), 1)
}

func TestCategoryChangeRefetches(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))

	m, cmd := send(t, m, press("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, types.CategoryRing, m.Filter().Category)
	m = settle(t, m, cmd)
	assert.Equal(t, "ring", src.lastQuery().Category)
	assert.Equal(t, 5000, *src.lastQuery().MinPrice)

	m, cmd = send(t, m, press("C"))
	m = settle(t, m, cmd)
	assert.Equal(t, types.CategoryAll, m.Filter().Category)
	assert.Empty(t, src.lastQuery().Category)
	assert.Len(t, src.queries, 3)
}

func TestRangeCommitRefetchesOnlyOnChange(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))

	// leaving a field untouched commits the same range
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, press("tab"))
	}
	assert.False(t, m.Loading())
	assert.Len(t, src.queries, 1)
	assert.Equal(t, types.DefaultRange, m.Filter().Range)

	m, _ = send(t, m, press("shift+tab"))
	m, _ = send(t, m, press("shift+tab"))
	m, _ = send(t, m, press("shift+tab"))
	require.Equal(t, focusMinSlider, m.rangeSel.Focus())

	m, cmd := send(t, m, press("L"))
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Equal(t, types.PriceRange{Min: 15000, Max: 100000}, m.rangeSel.Committed())
	m = settle(t, m, cmd)

	q := src.lastQuery()
	assert.Equal(t, 15000, *q.MinPrice)
	assert.Equal(t, 100000, *q.MaxPrice)
	assert.Contains(t, m.View(), "Selected Range: ₹15,000 - ₹100,000")
}

func TestRapidSliderPressesKeepLatestRange(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))
	m, _ = send(t, m, press("tab"))

	var cmds []tea.Cmd
	for i := 1; i <= 3; i++ {
		var cmd tea.Cmd
		m, cmd = send(t, m, press("right"))
		cmds = append(cmds, cmd)
		assert.Equal(t, 5000+i*1000, m.rangeSel.Draft().Min)
		assert.Equal(t, m.rangeSel.Draft(), m.Filter().Range)
	}
	require.Equal(t, 4, m.seq)

	// cycles answer newest first
	for i := len(cmds) - 1; i >= 0; i-- {
		m = settle(t, m, cmds[i])
	}

	assert.False(t, m.Loading())
	assert.Equal(t, 8000, m.Filter().Range.Min)
	assert.Equal(t, 8000, m.rangeSel.Committed().Min)
	assert.Equal(t, 8000, m.rangeSel.Draft().Min)
	assert.Len(t, src.queries, 4)
	assert.Contains(t, m.View(), "Selected Range: ₹8,000 - ₹100,000")
}

func TestTypingAfterBlurSurvivesPendingCycle(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))

	for i := 0; i < 3; i++ {
		m, _ = send(t, m, press("tab"))
	}
	require.Equal(t, focusMinField, m.rangeSel.Focus())
	for i := 0; i < 4; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = send(t, m, press("20000"))

	m, cmd := send(t, m, press("tab"))
	assert.Equal(t, 20000, m.Filter().Range.Min)

	// start typing the max before the cycle answers
	for i := 0; i < 6; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = send(t, m, press("90000"))
	m = settle(t, m, cmd)

	assert.Equal(t, focusMaxField, m.rangeSel.Focus())
	assert.Equal(t, "90000", m.rangeSel.maxInput.Value())
	assert.Equal(t, types.PriceRange{Min: 20000, Max: 100000}, m.Filter().Range)
	assert.Equal(t, 20000, *src.lastQuery().MinPrice)
}

func TestSliderThroughKeyboardRefetches(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))

	m, _ = send(t, m, press("tab"))
	assert.Equal(t, focusMinSlider, m.rangeSel.Focus())

	m, cmd := send(t, m, press("right"))
	m = settle(t, m, cmd)
	assert.Equal(t, 6000, m.Filter().Range.Min)
	assert.Equal(t, 6000, *src.lastQuery().MinPrice)

	m, _ = send(t, m, press("esc"))
	assert.Equal(t, focusNone, m.rangeSel.Focus())
}

func TestFocusCycle(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()}))

	want := []rangeFocus{focusMinSlider, focusMaxSlider, focusMinField, focusMaxField, focusNone}
	for _, f := range want {
		m, _ = send(t, m, press("tab"))
		assert.Equal(t, f, m.rangeSel.Focus())
	}

	m, _ = send(t, m, press("shift+tab"))
	assert.Equal(t, focusMaxField, m.rangeSel.Focus())
}

func TestQuitIgnoredWhileTyping(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()}))

	for i := 0; i < 3; i++ {
		m, _ = send(t, m, press("tab"))
	}
	require.Equal(t, focusMinField, m.rangeSel.Focus())

	_, cmd := send(t, m, press("q"))
	assert.Nil(t, cmd)

	m, _ = send(t, m, press("esc"))
	_, cmd = send(t, m, press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFieldBlurInModelCommitsRange(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	m := start(t, newTestModel(src))

	for i := 0; i < 4; i++ {
		m, _ = send(t, m, press("tab"))
	}
	require.Equal(t, focusMaxField, m.rangeSel.Focus())
	for i := 0; i < 6; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = send(t, m, press("75000"))
	assert.Equal(t, types.DefaultRange, m.Filter().Range)

	m, cmd := send(t, m, press("tab"))
	m = settle(t, m, cmd)
	assert.Equal(t, types.PriceRange{Min: 5000, Max: 75000}, m.Filter().Range)
	assert.Equal(t, 75000, *src.lastQuery().MaxPrice)
}

func TestDetailFallsBackToPlaceholder(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	broken := assetBase + "img/ring.jpg"
	m := start(t, newTestModel(src, WithProber(fakeProber{broken: map[string]bool{broken: true}})))

	slot := m.results.Slot("1")
	require.NotNil(t, slot)

	m, cmd := send(t, m, press("enter"))
	assert.Equal(t, DetailView, m.state)
	m = settle(t, m, cmd)

	require.NotNil(t, m.detail)
	assert.Equal(t, "1", m.detail.ID())
	assert.Same(t, slot, m.detailImg, "the detail view shares the card slot")
	assert.True(t, m.detailImg.FellBack())
	assert.Equal(t, assetBase+"images/placeholder.png", m.detailImg.Src())
	assert.Contains(t, m.View(), "image unavailable")

	m, _ = send(t, m, press("esc"))
	assert.Equal(t, ListView, m.state)
	assert.Contains(t, m.View(), "(fallback)")
}

func TestDetailImageOfUnlistedProductFallsBack(t *testing.T) {
	other := types.NewProduct("9", "Old Bangle", "Other Jeweller", "", 1000, "img/gone.jpg", "", false)
	src := &fakeSource{products: sampleProducts(), detail: map[string]types.Product{"1": other}}
	broken := assetBase + "img/gone.jpg"
	m := start(t, newTestModel(src, WithProber(fakeProber{broken: map[string]bool{broken: true}})))

	m, cmd := send(t, m, press("enter"))
	m = settle(t, m, cmd)

	require.NotNil(t, m.detail)
	assert.True(t, m.detailImg.FellBack())
	assert.False(t, m.results.Slot("1").FellBack())
}

func TestSelectedCardImageFallsBackInList(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	ring := assetBase + "img/ring.jpg"
	pendant := "https://cdn.example.com/pendant.jpg"
	m := start(t, newTestModel(src, WithProber(fakeProber{broken: map[string]bool{ring: true, pendant: true}})))

	assert.True(t, m.results.Slot("1").FellBack())
	assert.False(t, m.results.Slot("2").FellBack(), "only the highlighted card is checked")
	assert.Contains(t, m.View(), "(fallback)")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = settle(t, m, cmd)
	assert.True(t, m.results.Slot("2").FellBack())
	assert.Equal(t, assetBase+"images/placeholder.png", m.results.Slot("2").Src())
}

func TestBrokenPlaceholderStopsAfterOneSwap(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	prober := fakeProber{broken: map[string]bool{
		assetBase + "img/ring.jpg":           true,
		assetBase + "images/placeholder.png": true,
	}}
	m := start(t, newTestModel(src, WithProber(prober)))

	m, cmd := send(t, m, press("enter"))
	m = settle(t, m, cmd)

	assert.True(t, m.detailImg.FellBack())
	assert.Equal(t, assetBase+"images/placeholder.png", m.detailImg.Src())
}

func TestDetailNotFound(t *testing.T) {
	src := &fakeSource{
		products:  sampleProducts(),
		detailErr: &api.RequestFailedError{Method: "GET", URL: "http://x/products/1", StatusCode: 404},
	}
	m := start(t, newTestModel(src))

	m, cmd := send(t, m, press("enter"))
	m = settle(t, m, cmd)
	assert.Nil(t, m.detail)
	assert.Contains(t, m.View(), "This product is no longer listed.")
}

func TestLateDetailAfterBackIgnored(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()}))

	m, cmd := send(t, m, press("enter"))
	m, _ = send(t, m, press("esc"))
	m = settle(t, m, cmd)

	assert.Equal(t, ListView, m.state)
	assert.Nil(t, m.detail)
}

func TestRefreshUpdatesPrice(t *testing.T) {
	refreshed := types.NewProduct("1", "Firefly Solitaire Ring", "Firefly Diamonds", "", 58000, "img/ring.jpg", "https://fireflydiamonds.com/ring", true)
	src := &fakeSource{products: sampleProducts(), refresh: map[string]types.Product{"1": refreshed}}
	m := start(t, newTestModel(src))
	before := m.Products()

	m, cmd := send(t, m, press("r"))
	m = settle(t, m, cmd)

	assert.Equal(t, 58000.0, m.Products()[0].Price())
	assert.Equal(t, 60000.0, before[0].Price())
	assert.Equal(t, "Price refreshed: ₹58,000", m.statusMsg)
	assert.Contains(t, m.View(), "₹58,000")
}

func TestRefreshForOldCycleIgnored(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()}))
	refreshed := types.NewProduct("1", "Renamed", "Firefly Diamonds", "", 1, "", "", true)

	m, _ = send(t, m, refreshMsg{seq: m.seq - 1, id: "1", product: refreshed})
	assert.Equal(t, "Firefly Solitaire Ring", m.Products()[0].Name())
}

func TestRefreshFailureForOldCycleIgnored(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()}))
	status := m.statusMsg

	m, _ = send(t, m, refreshMsg{seq: m.seq - 1, id: "1", err: assert.AnError})
	assert.Equal(t, status, m.statusMsg)

	m, _ = send(t, m, refreshMsg{seq: m.seq, id: "1", err: assert.AnError})
	assert.Equal(t, "Refresh failed", m.statusMsg)
}

func TestFetchCycleLogsAppliedQuery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := &fakeSource{products: sampleProducts()}
	start(t, newTestModel(src,
		WithLogger(zap.New(core)),
		WithFilter(types.Filter{Range: types.PriceRange{Min: 1000, Max: 2000}, Category: types.CategoryRing}),
	))

	done := logs.FilterMessage("fetch cycle done").All()
	require.Len(t, done, 1)
	q, ok := done[0].ContextMap()["query"].(types.ProductQuery)
	require.True(t, ok)
	assert.Equal(t, "ring", q.Category)
	assert.Equal(t, 1000, *q.MinPrice)
	assert.Equal(t, 2000, *q.MaxPrice)
}

func TestOpenAndCopyLink(t *testing.T) {
	var opened, copied string
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()},
		WithBrowser(func(u string) error { opened = u; return nil }),
		WithClipboard(func(s string) error { copied = s; return nil }),
	))

	m, cmd := send(t, m, press("o"))
	m = settle(t, m, cmd)
	assert.Equal(t, "https://fireflydiamonds.com/ring", opened)

	m, cmd = send(t, m, press("y"))
	m = settle(t, m, cmd)
	assert.Equal(t, "https://fireflydiamonds.com/ring", copied)
	assert.Equal(t, "Link copied", m.statusMsg)
}

func TestLinkActionFailure(t *testing.T) {
	m := start(t, newTestModel(&fakeSource{products: sampleProducts()},
		WithClipboard(func(string) error { return assert.AnError }),
	))

	m, cmd := send(t, m, press("y"))
	m = settle(t, m, cmd)
	assert.Equal(t, "Could not copy link", m.statusMsg)
}

func TestWithFilterSeedsFirstCycle(t *testing.T) {
	src := &fakeSource{}
	m := start(t, newTestModel(src, WithFilter(types.Filter{
		Range:    types.PriceRange{Min: 1000, Max: 2000},
		Category: types.CategoryEarring,
	})))

	q := src.lastQuery()
	assert.Equal(t, 1000, *q.MinPrice)
	assert.Equal(t, 2000, *q.MaxPrice)
	assert.Equal(t, "earring", q.Category)
	assert.Equal(t, types.CategoryEarring, m.categories.Selected())
}
