package product

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Trend is the coarse buy/wait signal attached to a product after its
// price history has been classified.
type Trend string

const (
	TrendBuy     Trend = "buy"
	TrendWait    Trend = "wait"
	TrendNeutral Trend = "neutral"
)

// Product is a single normalized listing as returned by one upstream
// provider. It only lives for the duration of one search; the persistent
// snapshot is kept by pkg/storage.
type Product struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     string  `json:"price"`
	Link      string  `json:"link"`
	Source    string  `json:"source"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Trend     Trend   `json:"trend,omitempty"`
}

// Identity derives the stable opaque key for a listing. Two listings are
// the same product only if title, source and link all match; links that
// differ only in tracking parameters are distinct on purpose.
func Identity(title, source, link string) string {
	raw := title + "|" + source + "|" + link
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParsePrice extracts a numeric amount from a provider price string like
// "₹1,29,900", "Rs. 999" or "$499.99". Returns ok=false when the string
// carries no parseable amount.
func ParsePrice(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			// Keep the first dot only; a second one means we already
			// consumed the decimal part.
			if strings.ContainsRune(b.String(), '.') {
				return decimal.Decimal{}, false
			}
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatINR renders a provider price string in a single display form:
// rupee symbol plus Indian digit grouping ("₹1,29,900"). Strings that do
// not parse are returned untouched; stored prices are never rewritten,
// this pass is display-only.
func FormatINR(raw string) string {
	d, ok := ParsePrice(raw)
	if !ok {
		return raw
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole)

	digits := whole.String()
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	grouped := groupIndian(digits)
	out := "₹" + grouped
	if neg {
		out = "-" + out
	}
	if !frac.IsZero() {
		// Two decimal places, matching how providers quote paise.
		cents := frac.Abs().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		out += fmt.Sprintf(".%02d", cents)
	}
	return out
}

// groupIndian inserts commas in the Indian numbering style: the last three
// digits form one group, the rest pair off (1,23,45,678).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
