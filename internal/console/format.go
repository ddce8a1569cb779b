package console

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice renders a price with vi-VN digit grouping and a đ suffix.
func FormatPrice(price float64) string {
	return pricePrinter.Sprint(number.Decimal(price)) + "đ"
}
