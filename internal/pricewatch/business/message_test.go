package business

import (
	"testing"

	"pricewatch_api/internal/pricewatch/models"
)

func TestFormatMessage(t *testing.T) {
	got := FormatMessage(models.PriceEvent{ProductName: "Widget", PreviousPrice: 25, CurrentPrice: 15, Seller: "Acme"})
	if got != "Price of Widget dropped from 25.0 to 15.0 on Acme!" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{25: "25.0", 19.99: "19.99", 0.5: "0.5", 1000: "1000.0"}
	for in, want := range cases {
		if got := formatPrice(in); got != want {
			t.Fatalf("formatPrice(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatMessageNormalisesText(t *testing.T) {
	// "e" + combining acute accent composes to "é".
	got := FormatMessage(models.PriceEvent{ProductName: "Cafe\u0301 Mug", PreviousPrice: 2, CurrentPrice: 1, Seller: " Shop "})
	if got != "Price of Caf\u00e9 Mug dropped from 2.0 to 1.0 on Shop!" {
		t.Fatalf("unexpected message: %q", got)
	}
}
