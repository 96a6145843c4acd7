package rank

import (
	"reflect"
	"testing"

	"github.com/pricescope/pricescope/pkg/product"
)

func titles(items []product.Product) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestRankRelevantBeforeAccessoryDespiteTokenMatch(t *testing.T) {
	items := []product.Product{
		{Title: "iPhone 15 Pro", Price: "80000"},
		{Title: "iPhone 15 case", Price: "500"},
		{Title: "Samsung S25", Price: "70000"},
	}
	got := Rank(items, "iphone 15")
	want := []string{"iPhone 15 Pro", "Samsung S25", "iPhone 15 case"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("unexpected order.\nwant: %v\ngot:  %v", want, titles(got))
	}
}

func TestRankAccessoriesSinkBelowOtherTiers(t *testing.T) {
	// A bargain accessory must not climb past pricier listings in the
	// tiers above it, only ahead of other accessories.
	items := []product.Product{
		{Title: "iPhone 15 back cover", Price: "299"},
		{Title: "Pixel 9", Price: "55000"},
		{Title: "iPhone 15 charger", Price: "1500"},
		{Title: "iPhone 15", Price: "65000"},
	}
	got := Rank(items, "iphone 15")
	want := []string{"iPhone 15", "Pixel 9", "iPhone 15 back cover", "iPhone 15 charger"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("unexpected order.\nwant: %v\ngot:  %v", want, titles(got))
	}
}

func TestRankAscendingPriceWithinRelevance(t *testing.T) {
	items := []product.Product{
		{Title: "iPhone 15 256GB", Price: "₹75,000"},
		{Title: "iPhone 15 128GB", Price: "₹65,000"},
		{Title: "iPhone 15 512GB", Price: "unavailable"},
	}
	got := Rank(items, "iphone 15")
	want := []string{"iPhone 15 128GB", "iPhone 15 256GB", "iPhone 15 512GB"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("unexpected order.\nwant: %v\ngot:  %v", want, titles(got))
	}
}

func TestRankIsIdempotent(t *testing.T) {
	items := []product.Product{
		{Title: "iPhone 15 case", Price: "500"},
		{Title: "iPhone 15", Price: "65000"},
		{Title: "Galaxy S25", Price: "70000"},
		{Title: "iPhone 15 Plus", Price: "72000"},
	}
	once := Rank(items, "iphone 15")
	twice := Rank(once, "iphone 15")
	if !reflect.DeepEqual(titles(once), titles(twice)) {
		t.Fatalf("ranking is not idempotent.\nonce:  %v\ntwice: %v", titles(once), titles(twice))
	}
}

func TestRankNeverDropsItems(t *testing.T) {
	items := []product.Product{
		{Title: "iPhone 15 case", Price: ""},
		{Title: "random thing", Price: "nope"},
	}
	if got := Rank(items, "iphone 15"); len(got) != len(items) {
		t.Fatalf("rank dropped items: got %d, want %d", len(got), len(items))
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	items := []product.Product{
		{Title: "iPhone 15 seller A", Price: "65000"},
		{Title: "iPhone 15 seller B", Price: "65000"},
	}
	got := Rank(items, "iphone 15")
	want := []string{"iPhone 15 seller A", "iPhone 15 seller B"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("equal-price tie not stable: %v", titles(got))
	}
}

func TestIsAccessory(t *testing.T) {
	if !IsAccessory("iPhone 15 Tempered Glass Pack") {
		t.Error("tempered glass should be an accessory")
	}
	if IsAccessory("iPhone 15 Pro Max") {
		t.Error("a phone is not an accessory")
	}
}
