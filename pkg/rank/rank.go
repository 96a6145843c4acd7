// Package rank reorders a result list by relevance to the original query.
// Despite being a "filter", it never drops items — accessories and
// off-query listings just sink to the bottom.
package rank

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pricescope/pricescope/pkg/product"
)

// accessoryKeywords marks listings that merely accompany the product the
// user searched for.
var accessoryKeywords = []string{
	"case", "cover", "screen protector", "tempered glass", "skin",
	"pouch", "stand", "holder", "strap", "charger", "cable", "adapter",
	"earbuds", "headphones", "protector", "bag", "back cover",
	"flip cover", "bumper", "shell", "guard",
}

// IsAccessory reports whether a title looks like an accessory listing.
func IsAccessory(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range accessoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsRelevant reports whether a title contains every query token and is
// not an accessory.
func IsRelevant(title, query string) bool {
	lower := strings.ToLower(title)
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(lower, tok) {
			return false
		}
	}
	return !IsAccessory(title)
}

// Rank returns a new slice sorted into three tiers — relevant listings,
// then non-relevant non-accessories, then accessories — with ascending
// price inside each tier (unparseable prices last). A cheap accessory
// never outranks anything outside its tier. The sort is stable, so
// repeated ranking of an already-ranked list is a no-op.
func Rank(items []product.Product, query string) []product.Product {
	type key struct {
		tier   int
		price  decimal.Decimal
		priced bool
	}
	keys := make([]key, len(items))
	for i, it := range items {
		p, ok := product.ParsePrice(it.Price)
		keys[i] = key{tier: tierOf(it.Title, query), price: p, priced: ok}
	}

	out := make([]product.Product, len(items))
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.tier != kb.tier {
			return ka.tier < kb.tier
		}
		if ka.priced != kb.priced {
			return ka.priced // parseable prices sort before +inf
		}
		if ka.priced && kb.priced {
			return ka.price.LessThan(kb.price)
		}
		return false
	})
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

// tierOf buckets a listing: 0 relevant, 1 non-relevant non-accessory,
// 2 accessory. Relevance already excludes accessories, so the tiers are
// disjoint.
func tierOf(title, query string) int {
	switch {
	case IsRelevant(title, query):
		return 0
	case IsAccessory(title):
		return 2
	default:
		return 1
	}
}
