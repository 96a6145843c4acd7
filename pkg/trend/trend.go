// Package trend classifies a listing's current price against its recent
// history. The output is a coarse heuristic signal, not a forecast.
package trend

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/product"
)

// historyWindow is how many recent price points feed one classification.
const historyWindow = 5

// minSamples is the fewest parseable prices needed before the classifier
// will say anything other than neutral.
const minSamples = 3

var (
	floorBand   = decimal.RequireFromString("1.05")
	ceilingBand = decimal.RequireFromString("0.95")
	belowAvg    = decimal.RequireFromString("0.98")
	aboveAvg    = decimal.RequireFromString("1.02")
)

// History provides recent price strings for an identity, newest first.
// *storage.DB satisfies it.
type History interface {
	RecentPrices(ctx context.Context, identity string, limit int) ([]string, error)
}

// Classify reads up to the 5 most recent price points for identity and
// classifies currentPrice against them. Malformed history entries are
// skipped, not counted; with fewer than 3 usable prices the answer is
// always neutral. The five branches below run in a fixed order and the
// first match wins — the thresholds can overlap, so order is the
// tie-break.
func Classify(ctx context.Context, h History, identity, currentPrice string) product.Trend {
	cur, ok := product.ParsePrice(currentPrice)
	if !ok {
		return product.TrendNeutral
	}

	raw, err := h.RecentPrices(ctx, identity, historyWindow)
	if err != nil {
		utils.Log.Warnf("trend: reading history for %s: %v", identity, err)
		return product.TrendNeutral
	}

	var prices []decimal.Decimal
	for _, s := range raw {
		if d, ok := product.ParsePrice(s); ok {
			prices = append(prices, d)
		}
	}
	if len(prices) < minSamples {
		return product.TrendNeutral
	}

	min, max, sum := prices[0], prices[0], decimal.Zero
	for _, p := range prices {
		if p.LessThan(min) {
			min = p
		}
		if p.GreaterThan(max) {
			max = p
		}
		sum = sum.Add(p)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(prices))))

	switch {
	case cur.LessThanOrEqual(min.Mul(floorBand)):
		return product.TrendBuy
	case cur.GreaterThanOrEqual(max.Mul(ceilingBand)):
		return product.TrendWait
	case cur.LessThan(avg.Mul(belowAvg)):
		return product.TrendBuy
	case cur.GreaterThan(avg.Mul(aboveAvg)):
		return product.TrendWait
	default:
		return product.TrendNeutral
	}
}
