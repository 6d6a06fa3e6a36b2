package business

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"pricewatch_api/internal/pricewatch/models"
)

// FormatMessage renders the price-drop notification text for event.
func FormatMessage(event models.PriceEvent) string {
	return fmt.Sprintf("Price of %s dropped from %s to %s on %s!",
		norm.NFC.String(strings.TrimSpace(event.ProductName)),
		formatPrice(event.PreviousPrice),
		formatPrice(event.CurrentPrice),
		norm.NFC.String(strings.TrimSpace(event.Seller)),
	)
}

// formatPrice prints the shortest exact form and always keeps a decimal part: 25 -> "25.0", 19.99 -> "19.99".
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
