package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	domcatalog "example.com/storefront/internal/domain/catalog"
	domorder "example.com/storefront/internal/domain/order"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	badgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	soldOutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	busyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.screen {
	case screenLoading:
		b.WriteString(dimStyle.Render("Loading catalog..."))
		b.WriteString("\n")
	case screenLoadError:
		b.WriteString(errorStyle.Render("Could not load the catalog: " + m.loadErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("r retry • q quit"))
		b.WriteString("\n")
	case screenCatalog:
		b.WriteString(m.catalogView())
	case screenCart:
		b.WriteString(panelStyle.Render(m.cartView()))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.messageErr {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(successStyle.Render(m.message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) header() string {
	badge := badgeStyle.Render(fmt.Sprintf("Cart (%d)", m.cart.TotalUnitCount()))
	return lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("Egg Shop"), "  ", badge)
}

func (m Model) catalogView() string {
	if len(m.items) == 0 {
		return dimStyle.Render("No items available.") + "\n"
	}

	var b strings.Builder
	for i, item := range m.items {
		cursor := "  "
		label := item.Label
		if i == m.cursor {
			cursor = "> "
			label = selectedStyle.Render(label)
		}

		row := fmt.Sprintf("%s%-24s %8s  ", cursor, label, domcatalog.FormatPrice(item.UnitPrice))
		if !item.InStock() {
			row += soldOutStyle.Render("Out of Stock")
		} else {
			row += dimStyle.Render(fmt.Sprintf("%d available", item.AvailableQuantity))
			if sel, ok := m.selectors.For(item.ID); ok {
				qty := fmt.Sprintf("[- %d +]", sel.Quantity())
				if i == m.cursor && m.editingQuantity {
					qty = "[" + m.quantityInput.View() + "]"
				}
				row += "  " + qty
			}
		}
		b.WriteString(row)
		b.WriteString("\n")

		if i == m.cursor && item.Description != "" {
			b.WriteString("    " + dimStyle.Render(item.Description) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move • +/- quantity • e enter quantity • a add to cart • i reload item • c cart • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) cartView() string {
	lines := m.cart.Snapshot()
	if len(lines) == 0 {
		return "Your cart is empty.\n\n" + dimStyle.Render("c back to catalog")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Cart"))
	b.WriteString("\n\n")
	for i, line := range lines {
		cursor := "  "
		label := line.Item.Label
		if i == m.cartCursor {
			cursor = "> "
			label = selectedStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%-24s %8s x %-4d %9s\n",
			cursor,
			label,
			domcatalog.FormatPrice(line.Item.UnitPrice),
			line.Quantity,
			domcatalog.FormatPrice(line.Subtotal()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", domcatalog.FormatPrice(m.cart.TotalPrice()))

	online, cash := "( ) Pay online", "( ) Cash on pickup"
	if m.paymentMode == domorder.PaymentCash {
		cash = "(•) Cash on pickup"
	} else {
		online = "(•) Pay online"
	}
	b.WriteString(online + "   " + cash + "\n")

	if m.paymentMode == domorder.PaymentCash {
		pickup := m.pickupInput.Value()
		if m.editingPickup {
			pickup = m.pickupInput.View()
		} else if pickup == "" {
			pickup = dimStyle.Render("not set")
		}
		b.WriteString("Pickup time: " + pickup + "\n")
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(busyStyle.Render("Processing..."))
	} else {
		help := "+/- quantity • x remove • C clear • p payment"
		if m.paymentMode == domorder.PaymentCash {
			help += " • t pickup time"
		}
		help += " • enter checkout • c back"
		b.WriteString(dimStyle.Render(help))
	}
	return b.String()
}
