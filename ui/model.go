package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/qyinm/gemtui/api"
	"github.com/qyinm/gemtui/imageref"
	"github.com/qyinm/gemtui/types"
	"go.uber.org/zap"
)

// fetchFailedMessage is the only error text a shopper sees for a failed cycle.
const fetchFailedMessage = "Failed to load products. Please try again later."

// ViewState represents the current view mode
type ViewState int

const (
	ListView ViewState = iota
	DetailView
)

// Model is the root controller. It owns the committed filter and the status
// of the current fetch cycle; child views only receive copies.
type Model struct {
	ctx      context.Context
	source   types.ProductSource
	logger   *zap.Logger
	resolver imageref.ImageResolver
	prober   imageProber
	openURL  func(string) error
	copyText func(string) error
	currency string

	filter     types.Filter
	rangeSel   RangeSelector
	categories CategorySelector
	results    ResultList
	viewport   viewport.Model
	help       help.Model
	keys       keyMap
	state      ViewState

	// seq tags fetch cycles; only a response carrying the latest seq is applied.
	seq       int
	loading   bool
	errMsg    string
	products  []types.Product
	detailReq int
	detail    *types.Product
	detailImg *imageref.Slot
	detailErr string
	statusMsg string
	width     int
	height    int
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to backend calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithResolver sets the image resolution strategy.
func WithResolver(r imageref.ImageResolver) Option {
	return func(m *Model) {
		if r != nil {
			m.resolver = r
		}
	}
}

// WithProber sets the image load checker used for cards and the detail view.
func WithProber(p imageProber) Option {
	return func(m *Model) {
		if p != nil {
			m.prober = p
		}
	}
}

// WithBrowser sets how product links are opened.
func WithBrowser(open func(string) error) Option {
	return func(m *Model) {
		if open != nil {
			m.openURL = open
		}
	}
}

// WithClipboard sets how product links are copied.
func WithClipboard(copyText func(string) error) Option {
	return func(m *Model) {
		if copyText != nil {
			m.copyText = copyText
		}
	}
}

// WithCurrency sets the currency symbol.
func WithCurrency(symbol string) Option {
	return func(m *Model) { m.currency = symbol }
}

// WithFilter sets the initial committed filter. Invalid ranges are ignored.
func WithFilter(f types.Filter) Option {
	return func(m *Model) {
		if f.Range.Valid() {
			m.filter.Range = f.Range
		}
		m.filter.Category = f.Category
	}
}

// NewModel creates a Model with the given ProductSource. The first fetch
// cycle is armed here and started by Init.
func NewModel(source types.ProductSource, opts ...Option) Model {
	m := Model{
		ctx:      context.Background(),
		source:   source,
		logger:   zap.NewNop(),
		resolver: imageref.NewResolver("", nil),
		prober:   imageref.NewProber(nil),
		openURL:  browser.OpenURL,
		copyText: clipboard.WriteAll,
		currency: "₹",
		filter:   types.Filter{Range: types.DefaultRange, Category: types.CategoryAll},
		keys:     keys,
		state:    ListView,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.rangeSel = NewRangeSelector(m.filter.Range, m.currency)
	m.categories = NewCategorySelector(m.filter.Category)
	m.results = NewResultList(m.resolver, m.currency)
	m.viewport = viewport.New(0, 0)
	m.help = help.New()

	m.seq = 1
	m.loading = true
	m.results.SetLoading(true)
	m.statusMsg = "Loading..."
	return m
}

// Init starts the first fetch cycle
func (m Model) Init() tea.Cmd {
	m.logger.Debug("fetch cycle started", zap.Int("seq", m.seq), zap.Any("query", m.filter.Query()))
	return tea.Batch(fetchProducts(m.ctx, m.source, m.filter, m.seq), m.results.spinner.Tick)
}

// Filter returns the committed filter.
func (m Model) Filter() types.Filter { return m.filter }

// Loading reports whether the current fetch cycle is pending.
func (m Model) Loading() bool { return m.loading }

// Err returns the message of the current failed cycle, or "".
func (m Model) Err() string { return m.errMsg }

// Products returns the result set of the current cycle.
func (m Model) Products() []types.Product { return m.products }

// startFetch begins a new cycle. An in-flight cycle is not cancelled; its
// response is dropped when it arrives with an old seq.
func (m *Model) startFetch() tea.Cmd {
	m.seq++
	m.loading = true
	m.errMsg = ""
	m.results.SetLoading(true)
	m.statusMsg = "Loading..."
	m.logger.Debug("fetch cycle started", zap.Int("seq", m.seq), zap.Any("query", m.filter.Query()))
	return tea.Batch(fetchProducts(m.ctx, m.source, m.filter, m.seq), m.results.spinner.Tick)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		return m, nil

	case productsMsg:
		return m.handleProducts(msg)

	case productDetailMsg:
		return m.handleDetail(msg)

	case refreshMsg:
		return m.handleRefresh(msg)

	case imageProbeMsg:
		return m.handleProbe(msg)

	case linkActionMsg:
		if msg.err != nil {
			m.logger.Warn("link action failed", zap.String("action", msg.action), zap.Error(msg.err))
			m.statusMsg = fmt.Sprintf("Could not %s link", msg.action)
		} else if msg.action == "copy" {
			m.statusMsg = "Link copied"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleProducts(msg productsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		m.logger.Debug("discarding stale fetch response", zap.Int("seq", msg.seq), zap.Int("current", m.seq))
		return m, nil
	}

	m.loading = false
	m.results.SetLoading(false)

	if msg.err != nil {
		m.logger.Error("fetch products failed",
			zap.Int("seq", msg.seq),
			zap.Any("query", msg.filter.Query()),
			zap.Error(msg.err),
		)
		m.errMsg = fetchFailedMessage
		m.products = nil
		m.statusMsg = "Error"
		return m, m.results.SetProducts(nil)
	}

	m.products = msg.products
	m.statusMsg = fmt.Sprintf("%d products", len(msg.products))
	m.logger.Debug("fetch cycle done",
		zap.Int("seq", msg.seq),
		zap.Any("query", msg.filter.Query()),
		zap.Int("count", len(msg.products)),
	)
	cmd := m.results.SetProducts(msg.products)
	return m, tea.Batch(cmd, m.checkSelectedImage())
}

func (m Model) handleDetail(msg productDetailMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.detailReq || m.state != DetailView {
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn("fetch product detail failed", zap.Error(msg.err))
		m.detailErr = "Failed to load product details."
		var reqErr *api.RequestFailedError
		if errors.As(msg.err, &reqErr) && reqErr.NotFound() {
			m.detailErr = "This product is no longer listed."
		}
		m.renderDetail()
		return m, nil
	}
	p := msg.product
	m.detail = &p
	m.detailErr = ""
	m.detailImg = m.slotFor(p)
	m.renderDetail()
	return m, probeImage(m.ctx, m.prober, p.ID(), m.detailImg.Src())
}

func (m Model) handleRefresh(msg refreshMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		// the result set it belonged to is gone
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn("refresh product failed", zap.String("id", msg.id), zap.Error(msg.err))
		m.statusMsg = "Refresh failed"
		return m, nil
	}
	// copy on write; earlier Model values may still share the slice
	updated := make([]types.Product, len(m.products))
	for i, p := range m.products {
		updated[i] = p
		if p.ID() == msg.product.ID() {
			updated[i] = msg.product
		}
	}
	m.products = updated
	cmd, _ := m.results.Replace(msg.product)
	if m.detail != nil && m.detail.ID() == msg.product.ID() {
		p := msg.product
		if p.Image() != m.detail.Image() {
			m.detailImg = m.slotFor(p)
		}
		m.detail = &p
		m.renderDetail()
	}
	m.statusMsg = "Price refreshed: " + formatPrice(m.currency, msg.product.Price())
	return m, cmd
}

// handleProbe swaps a broken image for the placeholder once, then checks the
// placeholder. A failing placeholder ends the chain because Slot.Fail
// refuses a second swap.
func (m Model) handleProbe(msg imageProbeMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		return m, nil
	}
	slot := m.results.Slot(msg.id)
	if m.detail != nil && m.detail.ID() == msg.id {
		slot = m.detailImg
	}
	if slot == nil || slot.Src() != msg.src {
		return m, nil
	}
	m.logger.Debug("image failed to load", zap.String("id", msg.id), zap.String("src", msg.src), zap.Error(msg.err))
	if !slot.Fail() {
		return m, nil
	}
	if m.state == DetailView {
		m.renderDetail()
	}
	return m, probeImage(m.ctx, m.prober, msg.id, slot.Src())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.state == DetailView {
		return m.handleDetailKey(msg)
	}

	focus := m.rangeSel.Focus()

	// Tab order: list, min slider, max slider, min field, max field.
	switch {
	case key.Matches(msg, m.keys.NextFocus):
		return m.applyRange(m.rangeSel.SetFocus((focus + 1) % (focusMaxField + 1)))
	case key.Matches(msg, m.keys.PrevFocus):
		return m.applyRange(m.rangeSel.SetFocus((focus + focusMaxField) % (focusMaxField + 1)))
	case focus != focusNone && msg.Type == tea.KeyEsc:
		return m.applyRange(m.rangeSel.SetFocus(focusNone))
	}

	if focus.isField() {
		var cmd tea.Cmd
		m.rangeSel, cmd = m.rangeSel.Update(msg)
		return m.applyRange(cmd)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil
	case key.Matches(msg, m.keys.NextCat):
		m.categories.Next()
		return m.categoryChanged()
	case key.Matches(msg, m.keys.PrevCat):
		m.categories.Prev()
		return m.categoryChanged()
	}

	if focus != focusNone {
		var cmd tea.Cmd
		m.rangeSel, cmd = m.rangeSel.Update(msg)
		return m.applyRange(cmd)
	}

	item, hasItem := m.results.Selected()
	switch {
	case key.Matches(msg, m.keys.Enter) && hasItem:
		return m.openDetail(item.product)
	case key.Matches(msg, m.keys.Open) && hasItem:
		return m, runLinkAction("open", m.openURL, item.product.Link())
	case key.Matches(msg, m.keys.Copy) && hasItem:
		return m, runLinkAction("copy", m.copyText, item.product.Link())
	case key.Matches(msg, m.keys.Refresh) && hasItem:
		m.statusMsg = "Refreshing " + item.product.Name() + "..."
		return m, refreshProduct(m.ctx, m.source, item.product.ID(), m.seq)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	if next, ok := m.results.Selected(); ok && (!hasItem || next.product.ID() != item.product.ID()) {
		cmd = tea.Batch(cmd, m.checkSelectedImage())
	}
	return m, cmd
}

// applyRange takes a range the panel committed during this Update and starts
// a fetch cycle when it differs from the committed filter.
func (m Model) applyRange(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	r, ok := m.rangeSel.TakeCommit()
	if !ok || !r.Valid() || r == m.filter.Range {
		return m, cmd
	}
	m.filter.Range = r
	return m, tea.Batch(cmd, m.startFetch())
}

// checkSelectedImage tests the image of the highlighted card so a broken one
// falls back without opening the detail view.
func (m *Model) checkSelectedImage() tea.Cmd {
	item, ok := m.results.Selected()
	if !ok || item.image == nil || item.image.FellBack() {
		return nil
	}
	return probeImage(m.ctx, m.prober, item.product.ID(), item.image.Src())
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = ListView
		m.detail = nil
		m.detailImg = nil
		m.detailErr = ""
		m.detailReq++
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	if m.detail != nil {
		switch {
		case key.Matches(msg, m.keys.Open):
			return m, runLinkAction("open", m.openURL, m.detail.Link())
		case key.Matches(msg, m.keys.Copy):
			return m, runLinkAction("copy", m.copyText, m.detail.Link())
		case key.Matches(msg, m.keys.Refresh):
			m.statusMsg = "Refreshing " + m.detail.Name() + "..."
			return m, refreshProduct(m.ctx, m.source, m.detail.ID(), m.seq)
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) categoryChanged() (tea.Model, tea.Cmd) {
	c := m.categories.Selected()
	if c == m.filter.Category {
		return m, nil
	}
	m.filter.Category = c
	return m, m.startFetch()
}

func (m Model) openDetail(p types.Product) (tea.Model, tea.Cmd) {
	m.state = DetailView
	m.detailReq++
	m.detail = nil
	m.detailImg = nil
	m.detailErr = ""
	m.viewport.SetContent("Loading " + p.Name() + "...")
	m.viewport.GotoTop()
	return m, fetchProductDetail(m.ctx, m.source, p.ID(), m.detailReq)
}

// slotFor reuses the list slot of p when it is listed with the same image,
// so a fallback in one view shows in the other.
func (m *Model) slotFor(p types.Product) *imageref.Slot {
	for _, listed := range m.products {
		if listed.ID() == p.ID() && listed.Image() == p.Image() {
			if slot := m.results.Slot(p.ID()); slot != nil {
				return slot
			}
		}
	}
	return imageref.NewSlot(m.resolver, p.Image())
}

// View renders the current view
func (m Model) View() string {
	var body string
	switch m.state {
	case DetailView:
		body = m.viewport.View()
	default:
		parts := []string{m.headerView()}
		if m.errMsg != "" && !m.loading {
			parts = append(parts, ErrorStyle.Render(m.errMsg))
		} else {
			parts = append(parts, m.results.View())
		}
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView(), m.help.View(m.keys))
}

func (m Model) headerView() string {
	title := HeaderTitleStyle.Render("Firefly Diamonds Price Comparison") + "  " +
		HeaderSubtitleStyle.Render("Compare jewelry prices across multiple retailers")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.categories.View(),
		m.rangeSel.View(),
		"",
	)
}

func (m Model) statusView() string {
	status := m.statusMsg
	if m.loading {
		status = m.results.spinner.View() + " " + status
	}
	var focus string
	switch m.rangeSel.Focus() {
	case focusMinSlider:
		focus = "min slider"
	case focusMaxSlider:
		focus = "max slider"
	case focusMinField:
		focus = "min field"
	case focusMaxField:
		focus = "max field"
	default:
		focus = "results"
	}
	return StatusBarStyle.Render(fmt.Sprintf(" %s │ %s │ focus: %s", m.filter.Category.Label(), status, focus))
}

// resizePanes adjusts the dimensions of list and viewport based on window size
func (m *Model) resizePanes() {
	statusHeight := 1
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	headerHeight := lipgloss.Height(m.headerView())

	listHeight := m.height - headerHeight - statusHeight - helpHeight
	if listHeight < 0 {
		listHeight = 0
	}
	m.results.SetSize(m.width, listHeight)
	m.help.Width = m.width

	m.viewport.Width = m.width
	m.viewport.Height = m.height - statusHeight - helpHeight
	if m.viewport.Height < 0 {
		m.viewport.Height = 0
	}
	if m.state == DetailView {
		m.renderDetail()
	}
}

// renderDetail writes the detail product into the viewport.
func (m *Model) renderDetail() {
	if m.detailErr != "" {
		m.viewport.SetContent(ErrorStyle.Render(m.detailErr) + "\n\n" + DimStyle.Render("esc to go back"))
		return
	}
	if m.detail == nil {
		return
	}
	p := m.detail
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	title := DetailTitleStyle.Render(p.Name())
	if p.IsFirefly() {
		title = FireflyBadgeStyle.Render("Firefly") + " " + title
	}
	b.WriteString(title + "\n")
	b.WriteString(StoreStyle.Render(p.Store()) + "  " + PriceStyle.Render(formatPrice(m.currency, p.Price())) + "\n\n")
	if desc := plainText(p.Description()); desc != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Render(desc) + "\n\n")
	}
	if slot := m.detailImg; slot != nil {
		img := slot.Src()
		if slot.FellBack() {
			img += DimStyle.Render(" (image unavailable, showing placeholder)")
		}
		b.WriteString(DetailLabelStyle.Render("Image ") + img + "\n")
	}
	b.WriteString(DetailLabelStyle.Render("Link  ") + p.Link() + "\n\n")
	b.WriteString(DimStyle.Render("o open in browser • y copy link • r refresh price • esc back"))
	m.viewport.SetContent(b.String())
}

