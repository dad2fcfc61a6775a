package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/vetdesk/posapi/internal/domain"
)

const receiptWidth = 42

// RenderReceipt formats the current cart as a printable register slip. It is
// composed from cart data at print time; nothing about it is stored.
func RenderReceipt(lines []domain.CartLine, unit currency.Unit, now time.Time) string {
	var b strings.Builder

	center := func(s string) {
		pad := (receiptWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(s)
		b.WriteString("\n")
	}
	rule := func() {
		b.WriteString(strings.Repeat("-", receiptWidth))
		b.WriteString("\n")
	}
	row := func(left, right string) {
		gap := receiptWidth - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(right)
		b.WriteString("\n")
	}

	center("VETDESK POS")
	center(now.Format("2006-01-02 15:04"))
	rule()

	total := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		name := line.ProductName
		if line.VariantName != "" {
			name = fmt.Sprintf("%s (%s)", line.ProductName, line.VariantName)
		}
		b.WriteString(name)
		b.WriteString("\n")
		row(
			fmt.Sprintf("  %d x %s", line.Quantity, domain.FormatAmount(line.UnitPrice, unit)),
			domain.FormatAmount(line.LineTotal(), unit),
		)
		total = total.Add(line.LineTotal())
		itemCount += line.Quantity
	}

	rule()
	row(fmt.Sprintf("ITEMS: %d", itemCount), "TOTAL: "+domain.FormatAmount(total, unit))
	rule()
	center("Thank you for your visit")

	return b.String()
}
