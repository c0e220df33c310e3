// Package tui renders the storefront page in a terminal: the product grid,
// the cart drawer and the badge, all driven by a single cart.Store.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"MiniCart/internal/cart"
	"MiniCart/internal/catalog"
)

type loadedMsg struct{ err error }

// stateMsg carries a committed state pushed by the store subscription.
type stateMsg cart.State

type Model struct {
	store   *cart.Store
	loader  *catalog.Loader
	ctx     context.Context
	cancel  context.CancelFunc
	changes chan cart.State
	unsub   func()

	spinner spinner.Model
	styles  styles

	cursor   int
	drawer   bool
	entry    int
	quitting bool
}

// New mounts the view over a fresh store. The catalog load starts with Init.
func New(loader *catalog.Loader) Model {
	ctx, cancel := context.WithCancel(context.Background())
	store := cart.NewStore()
	changes := make(chan cart.State, 1)

	// Latest state wins; the view only ever needs the newest one.
	unsub := store.Subscribe(func(st cart.State) {
		for {
			select {
			case changes <- st:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})

	return Model{
		store:   store,
		loader:  loader,
		ctx:     ctx,
		cancel:  cancel,
		changes: changes,
		unsub:   unsub,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  defaultStyles(),
	}
}

// Store exposes the state container backing the view.
func (m Model) Store() *cart.Store { return m.store }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForState())
}

// waitForState delivers the next committed state, or nothing once the view
// is torn down.
func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-m.changes:
			return stateMsg(st)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.loader.Run(m.ctx, m.store)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if errors.Is(msg.err, catalog.ErrDetached) {
			return m, nil
		}
		m.cursor = clamp(m.cursor, len(m.store.State().Catalog))
		return m, nil

	case stateMsg:
		st := cart.State(msg)
		m.cursor = clamp(m.cursor, len(st.Catalog))
		m.entry = clamp(m.entry, len(st.Cart))
		return m, m.waitForState()

	case spinner.TickMsg:
		if !m.pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.teardown()
		m.quitting = true
		return m, tea.Quit
	case "c":
		m.drawer = !m.drawer
		m.entry = clamp(m.entry, len(m.store.State().Cart))
		return m, nil
	}

	if m.drawer {
		return m.handleDrawerKey(msg)
	}

	st := m.store.State()
	switch msg.String() {
	case "up", "k":
		m.cursor = clamp(m.cursor-1, len(st.Catalog))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, len(st.Catalog))
	case "a", "enter":
		if st.Phase() == cart.PhaseSuccess && len(st.Catalog) > 0 {
			m.store.Dispatch(cart.Add{Product: st.Catalog[m.cursor]})
		}
	}
	return m, nil
}

func (m Model) handleDrawerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.store.State().Cart

	switch msg.String() {
	case "esc":
		m.drawer = false
	case "up", "k":
		m.entry = clamp(m.entry-1, len(entries))
	case "down", "j":
		m.entry = clamp(m.entry+1, len(entries))
	case "+", "=":
		if len(entries) > 0 {
			m.store.Dispatch(cart.Add{Product: entries[m.entry].Product})
		}
	case "-":
		if len(entries) > 0 {
			st := m.store.Dispatch(cart.RemoveOne{ProductID: entries[m.entry].Product.ID})
			m.entry = clamp(m.entry, len(st.Cart))
		}
	}
	return m, nil
}

// teardown detaches a pending load and stops the store from accepting
// further transitions.
func (m Model) teardown() {
	m.cancel()
	m.unsub()
	m.store.Close()
}

func (m Model) pending() bool {
	p := m.store.State().Phase()
	return p == cart.PhaseIdle || p == cart.PhaseLoading
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.store.State()

	var b strings.Builder
	b.WriteString(m.header(st))
	b.WriteString("\n\n")

	body := m.grid(st)
	if m.drawer {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.styles.Drawer.Render(m.cartDrawer(st)))
	}
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	b.WriteString("\n")

	return b.String()
}

func (m Model) header(st cart.State) string {
	h := m.styles.Title.Render("MiniCart")
	if cart.BadgeVisible(st) {
		h += "  " + m.styles.Badge.Render(fmt.Sprintf("[cart: %d]", cart.TotalItems(st)))
	}
	return h
}

func (m Model) grid(st cart.State) string {
	switch st.Phase() {
	case cart.PhaseIdle, cart.PhaseLoading:
		return m.spinner.View() + " Loading products..."
	case cart.PhaseError:
		return m.styles.Error.Render("Something went wrong :/")
	}

	if len(st.Catalog) == 0 {
		return "No products."
	}

	lines := make([]string, 0, len(st.Catalog))
	for i, p := range st.Catalog {
		line := fmt.Sprintf("%s  %s", p.Title, m.styles.Price.Render("$"+p.Price.StringFixed(2)))
		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) cartDrawer(st cart.State) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Your cart"))
	b.WriteString("\n")

	if len(st.Cart) == 0 {
		b.WriteString("Your cart is empty.\n")
	}
	for i, e := range st.Cart {
		marker := "  "
		if i == m.entry {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s  - %d +\n", marker, e.Product.Title, e.Quantity)
	}

	fmt.Fprintf(&b, "Total: $%s", cart.TotalPrice(st).StringFixed(2))
	return b.String()
}

func (m Model) help() string {
	if m.drawer {
		return "↑/↓ select • +/- quantity • c close • q quit"
	}
	if m.store.State().Phase() == cart.PhaseError {
		return "c cart • q quit"
	}
	return "↑/↓ select • a add • c cart • q quit"
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
