package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qyinm/gemtui/types"
)

// drain runs cmd and any batched commands, collecting their messages.
// Commands that block (cursor blink, spinner ticks) are abandoned after a
// short wait.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		done := make(chan tea.Msg, 1)
		go func() { done <- c() }()
		select {
		case msg := <-done:
			if batch, ok := msg.(tea.BatchMsg); ok {
				queue = append(queue, batch...)
				continue
			}
			if msg != nil {
				out = append(out, msg)
			}
		case <-time.After(200 * time.Millisecond):
		}
	}
	return out
}

// findMsg returns the first message of type T.
func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

// fakeSource records queries and serves canned responses.
type fakeSource struct {
	mu        sync.Mutex
	products  []types.Product
	err       error
	detail    map[string]types.Product
	detailErr error
	refresh   map[string]types.Product
	queries   []types.ProductQuery
}

func (f *fakeSource) ListProducts(_ context.Context, q types.ProductQuery) ([]types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) GetProduct(_ context.Context, id string) (types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.detailErr != nil {
		return types.Product{}, f.detailErr
	}
	if p, ok := f.detail[id]; ok {
		return p, nil
	}
	for _, p := range f.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return types.Product{}, errors.New("not found")
}

func (f *fakeSource) RefreshProduct(_ context.Context, id string) (types.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.refresh[id]; ok {
		return p, nil
	}
	return types.Product{}, errors.New("refresh unavailable")
}

func (f *fakeSource) lastQuery() types.ProductQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

// fakeProber fails every src listed in broken.
type fakeProber struct {
	broken map[string]bool
}

func (p fakeProber) Probe(_ context.Context, src string) error {
	if p.broken[src] {
		return errors.New("broken image")
	}
	return nil
}

func sampleProducts() []types.Product {
	return []types.Product{
		types.NewProduct("1", "Firefly Solitaire Ring", "Firefly Diamonds", "Lab-grown <b>1ct</b> solitaire", 60000, "img/ring.jpg", "https://fireflydiamonds.com/ring", true),
		types.NewProduct("2", "Classic Pendant", "Other Jeweller", "18k gold pendant", 45000.5, "https://cdn.example.com/pendant.jpg", "https://other.example.com/pendant", false),
	}
}

// send applies msg and returns the concrete model.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// settle feeds every message produced by cmd back into m until no product,
// detail or probe messages remain.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; i < 10 && cmd != nil; i++ {
		var cmds []tea.Cmd
		for _, msg := range drain(t, cmd) {
			switch msg.(type) {
			case productsMsg, productDetailMsg, refreshMsg, imageProbeMsg, linkActionMsg:
				var next tea.Cmd
				m, next = send(t, m, msg)
				cmds = append(cmds, next)
			}
		}
		cmd = tea.Batch(cmds...)
	}
	return m
}
