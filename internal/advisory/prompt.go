package advisory

import (
	"fmt"
	"strings"

	"radagast/internal/domain"
)

// BuildPrompt assembles the structured replenishment prompt sent to the
// text-generation endpoint. The fixed three-line response format is the
// contract the parser tries first; the parser tolerates deviations
// because the upstream generator is not bound to it.
func BuildPrompt(product domain.Product, sales []domain.LedgerEvent) string {
	var b strings.Builder

	b.WriteString("INVENTORY REPLENISHMENT ANALYSIS REQUEST\n\n")
	b.WriteString("PRODUCT DATA:\n")
	fmt.Fprintf(&b, "- Product: %s\n", product.Name)
	fmt.Fprintf(&b, "- Current Stock: %d units\n", product.Quantity)
	fmt.Fprintf(&b, "- Reorder Threshold: %d units\n", product.ReorderThreshold)
	fmt.Fprintf(&b, "- Price: $%.2f\n", product.Price)

	if len(sales) > 0 {
		total := 0
		for _, sale := range sales {
			total += sale.Quantity
		}
		avgDailySales := float64(total) / float64(len(sales))
		fmt.Fprintf(&b, "- Average Daily Sales: %.2f units/day\n", avgDailySales)

		if avgDailySales > 0 {
			coverageDays := int(float64(product.Quantity) / avgDailySales)
			fmt.Fprintf(&b, "- Current Stock Coverage: %d days\n", coverageDays)
		}
	}

	b.WriteString("\nRESPONSE FORMAT (use exactly this format):\n")
	b.WriteString("QUANTITY: [number between 10-300]\n")
	b.WriteString("URGENCY: [CRITICAL/HIGH/MEDIUM/LOW]\n")
	b.WriteString("REASON: [brief explanation]\n")

	return b.String()
}
