// Package tui is the terminal storefront. One bubbletea event loop owns the
// catalog view, the cart view and every piece of session state; remote work
// runs in commands whose results come back as messages.
package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	domcart "example.com/storefront/internal/domain/cart"
	domcatalog "example.com/storefront/internal/domain/catalog"
	domorder "example.com/storefront/internal/domain/order"
	cartuc "example.com/storefront/internal/usecase/cart"
	"example.com/storefront/internal/usecase/selector"
)

type CatalogSource interface {
	Refresh(ctx context.Context) ([]domcatalog.Item, error)
	Get(ctx context.Context, id string) (*domcatalog.Item, error)
}

type Checkouter interface {
	Checkout(ctx context.Context, lines []domcart.Line, mode domorder.PaymentMode, pickupTime string) (domorder.Outcome, error)
}

type screen int

const (
	screenLoading screen = iota
	screenLoadError
	screenCatalog
	screenCart
)

type catalogLoadedMsg struct {
	items []domcatalog.Item
	err   error
}

type itemLoadedMsg struct {
	id   string
	item *domcatalog.Item
	err  error
}

type checkoutDoneMsg struct {
	outcome domorder.Outcome
	err     error
}

type dismissMsg struct {
	checkoutID string
}

type Options struct {
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

type Model struct {
	catalog  CatalogSource
	cart     *cartuc.Service
	checkout Checkouter
	logger   *zap.Logger
	timeout  time.Duration

	screen     screen
	loadErr    error
	items      []domcatalog.Item
	selectors  *selector.Set
	cursor     int
	cartCursor int

	quantityInput   textinput.Model
	editingQuantity bool
	pickupInput     textinput.Model
	editingPickup   bool

	paymentMode domorder.PaymentMode
	busy        bool
	message     string
	messageErr  bool
	dismissID   string

	width int
}

func NewModel(catalog CatalogSource, cart *cartuc.Service, checkout Checkouter, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	qty := textinput.New()
	qty.Placeholder = "1"
	qty.CharLimit = 6
	qty.Width = 6

	pickup := textinput.New()
	pickup.Placeholder = "2026-01-31T14:00"
	pickup.CharLimit = 32
	pickup.Width = 24

	return Model{
		catalog:       catalog,
		cart:          cart,
		checkout:      checkout,
		logger:        opts.Logger,
		timeout:       opts.RequestTimeout,
		screen:        screenLoading,
		selectors:     selector.NewSet(nil),
		quantityInput: qty,
		pickupInput:   pickup,
		paymentMode:   domorder.PaymentOnline,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCatalog()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		return m.onCatalogLoaded(msg), nil

	case itemLoadedMsg:
		return m.onItemLoaded(msg), nil

	case checkoutDoneMsg:
		return m.onCheckoutDone(msg)

	case dismissMsg:
		if msg.checkoutID != m.dismissID {
			return m, nil
		}
		m.dismissID = ""
		m.message = ""
		if m.screen == screenCart {
			m.screen = screenCatalog
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.editingQuantity:
			return m.updateQuantityInput(msg)
		case m.editingPickup:
			return m.updatePickupInput(msg)
		}
		switch m.screen {
		case screenLoading:
			if msg.String() == "q" {
				return m, tea.Quit
			}
		case screenLoadError:
			return m.updateLoadError(msg)
		case screenCatalog:
			return m.updateCatalog(msg)
		case screenCart:
			return m.updateCart(msg)
		}
		return m, nil
	}

	// Cursor blink and similar housekeeping for the focused input.
	var cmd tea.Cmd
	switch {
	case m.editingQuantity:
		m.quantityInput, cmd = m.quantityInput.Update(msg)
	case m.editingPickup:
		m.pickupInput, cmd = m.pickupInput.Update(msg)
	}
	return m, cmd
}

func (m Model) loadCatalog() tea.Cmd {
	catalog, timeout := m.catalog, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := catalog.Refresh(ctx)
		return catalogLoadedMsg{items: items, err: err}
	}
}

func (m Model) onCatalogLoaded(msg catalogLoadedMsg) Model {
	if msg.err != nil {
		m.logger.Warn("catalog load failed", zap.Error(msg.err))
		if len(m.items) == 0 {
			m.screen = screenLoadError
			m.loadErr = msg.err
			return m
		}
		m.setError("Error: " + msg.err.Error())
		return m
	}

	m.items = msg.items
	m.selectors.Sync(msg.items)
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
	if m.screen == screenLoading || m.screen == screenLoadError {
		m.screen = screenCatalog
		m.loadErr = nil
	}
	return m
}

func (m Model) loadItem(id string) tea.Cmd {
	catalog, timeout := m.catalog, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		item, err := catalog.Get(ctx, id)
		return itemLoadedMsg{id: id, item: item, err: err}
	}
}

// onItemLoaded swaps one refreshed item into the snapshot. An item the
// backend no longer knows is dropped.
func (m Model) onItemLoaded(msg itemLoadedMsg) Model {
	idx := -1
	for i, item := range m.items {
		if item.ID == msg.id {
			idx = i
			break
		}
	}

	switch {
	case errors.Is(msg.err, domcatalog.ErrItemNotFound):
		if idx >= 0 {
			m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
		}
		m.setError("Item is no longer available.")
	case msg.err != nil:
		m.logger.Warn("item reload failed", zap.String("item_id", msg.id), zap.Error(msg.err))
		m.setError("Error: " + msg.err.Error())
		return m
	case idx >= 0:
		items := make([]domcatalog.Item, len(m.items))
		copy(items, m.items)
		items[idx] = *msg.item
		m.items = items
	default:
		return m
	}

	m.selectors.Sync(m.items)
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
	return m
}

func (m Model) updateLoadError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.screen = screenLoading
		return m, m.loadCatalog()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "c":
		m.screen = screenCart
		m.cartCursor = 0
	case "i":
		if m.cursor < len(m.items) {
			return m, m.loadItem(m.items[m.cursor].ID)
		}
	case "+", "=":
		if sel, ok := m.currentSelector(); ok {
			sel.Increment()
		}
	case "-":
		if sel, ok := m.currentSelector(); ok {
			sel.Decrement()
		}
	case "e":
		sel, ok := m.currentSelector()
		if !ok || !sel.Item().InStock() {
			return m, nil
		}
		m.editingQuantity = true
		m.quantityInput.SetValue(strconv.FormatInt(sel.Quantity(), 10))
		m.quantityInput.CursorEnd()
		return m, m.quantityInput.Focus()
	case "a", "enter":
		sel, ok := m.currentSelector()
		if !ok {
			return m, nil
		}
		if cmd, ok := sel.Commit(); ok {
			m.cart.Dispatch(cmd)
		}
	}
	return m, nil
}

func (m Model) updateQuantityInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if sel, ok := m.currentSelector(); ok {
			sel.SetText(m.quantityInput.Value())
		}
		fallthrough
	case "esc":
		m.editingQuantity = false
		m.quantityInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.quantityInput, cmd = m.quantityInput.Update(msg)
	return m, cmd
}

func (m Model) updatePickupInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.editingPickup = false
		m.pickupInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.pickupInput, cmd = m.pickupInput.Update(msg)
	return m, cmd
}

// updateCart handles the cart view. While a checkout is outstanding only
// navigation is accepted.
func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "c", "esc":
		m.screen = screenCatalog
		return m, nil
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
		return m, nil
	case "down", "j":
		if m.cartCursor < len(m.cart.Snapshot())-1 {
			m.cartCursor++
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch key {
	case "+", "=":
		if line, ok := m.currentLine(); ok && line.Quantity < m.availableFor(line) {
			m.cart.Dispatch(domcart.UpdateQuantityCommand{ItemID: line.Item.ID, Quantity: line.Quantity + 1})
		}
	case "-":
		if line, ok := m.currentLine(); ok {
			m.cart.Dispatch(domcart.UpdateQuantityCommand{ItemID: line.Item.ID, Quantity: line.Quantity - 1})
		}
	case "x":
		if line, ok := m.currentLine(); ok {
			m.cart.Dispatch(domcart.RemoveCommand{ItemID: line.Item.ID})
		}
	case "C":
		m.cart.Dispatch(domcart.ClearCommand{})
	case "p":
		if m.paymentMode == domorder.PaymentOnline {
			m.paymentMode = domorder.PaymentCash
		} else {
			m.paymentMode = domorder.PaymentOnline
		}
	case "t":
		if m.paymentMode != domorder.PaymentCash {
			return m, nil
		}
		m.editingPickup = true
		m.pickupInput.CursorEnd()
		return m, m.pickupInput.Focus()
	case "enter":
		return m.startCheckout()
	}

	if n := len(m.cart.Snapshot()); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
	return m, nil
}

func (m Model) startCheckout() (tea.Model, tea.Cmd) {
	if m.busy || m.cart.IsEmpty() {
		return m, nil
	}

	lines := m.cart.Snapshot()
	mode := m.paymentMode
	pickup := m.pickupInput.Value()
	checkout := m.checkout

	m.busy = true
	m.message = ""
	m.dismissID = ""
	return m, func() tea.Msg {
		outcome, err := checkout.Checkout(context.Background(), lines, mode, pickup)
		return checkoutDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) onCheckoutDone(msg checkoutDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, domorder.ErrCheckoutInProgress) {
		return m, nil
	}
	m.busy = false

	if msg.err != nil {
		m.setError(validationText(msg.err))
		return m, nil
	}

	outcome := msg.outcome
	m.cart.ApplyOutcome(outcome)
	m.message = outcome.Message()
	m.messageErr = !outcome.Succeeded()

	var cmds []tea.Cmd
	if outcome.RefreshCatalog {
		cmds = append(cmds, m.loadCatalog())
	}
	if outcome.Succeeded() {
		m.pickupInput.Reset()
		m.cartCursor = 0
	}
	if outcome.DismissAfter > 0 {
		id := outcome.CheckoutID
		m.dismissID = id
		cmds = append(cmds, tea.Tick(outcome.DismissAfter, func(time.Time) tea.Msg {
			return dismissMsg{checkoutID: id}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setError(text string) {
	m.message = text
	m.messageErr = true
}

func validationText(err error) string {
	switch {
	case errors.Is(err, domorder.ErrPickupTimeRequired):
		return "Please select a pickup time for cash payment."
	case errors.Is(err, domorder.ErrEmptyCart):
		return "Your cart is empty."
	default:
		return "Error: " + err.Error()
	}
}

func (m Model) currentSelector() (*selector.Selector, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil, false
	}
	return m.selectors.For(m.items[m.cursor].ID)
}

func (m Model) currentLine() (domcart.Line, bool) {
	lines := m.cart.Snapshot()
	if m.cartCursor < 0 || m.cartCursor >= len(lines) {
		return domcart.Line{}, false
	}
	return lines[m.cartCursor], true
}

// availableFor prefers the latest catalog snapshot over the one captured
// when the line was added.
func (m Model) availableFor(line domcart.Line) int64 {
	for _, item := range m.items {
		if item.ID == line.Item.ID {
			return item.AvailableQuantity
		}
	}
	return line.Item.AvailableQuantity
}
