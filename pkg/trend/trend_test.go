package trend

import (
	"context"
	"errors"
	"testing"

	"github.com/pricescope/pricescope/pkg/product"
)

type fakeHistory struct {
	prices []string
	err    error
}

func (f *fakeHistory) RecentPrices(_ context.Context, _ string, limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.prices) > limit {
		return f.prices[:limit], nil
	}
	return f.prices, nil
}

func TestClassifyInsufficientDataIsNeutral(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
	}{
		{"empty history", nil},
		{"two points", []string{"100", "200"}},
		{"three points but one malformed", []string{"100", "n/a", "200"}},
	}
	for _, tt := range tests {
		h := &fakeHistory{prices: tt.prices}
		if got := Classify(context.Background(), h, "p1", "1"); got != product.TrendNeutral {
			t.Errorf("%s: got %s, want neutral", tt.name, got)
		}
	}
}

func TestClassifyUnparseableCurrentIsNeutral(t *testing.T) {
	h := &fakeHistory{prices: []string{"100", "100", "100"}}
	if got := Classify(context.Background(), h, "p1", "out of stock"); got != product.TrendNeutral {
		t.Errorf("got %s, want neutral", got)
	}
}

func TestClassifyHistoryErrorIsNeutral(t *testing.T) {
	h := &fakeHistory{err: errors.New("boom")}
	if got := Classify(context.Background(), h, "p1", "100"); got != product.TrendNeutral {
		t.Errorf("got %s, want neutral", got)
	}
}

func TestClassifyBranches(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		current string
		want    product.Trend
	}{
		{"at recent floor", []string{"100", "100", "100"}, "94", product.TrendBuy},
		// max=100 so the ceiling check (96 >= 95) fires before the
		// below-average branch could.
		{"ceiling beats average", []string{"100", "100", "50"}, "96", product.TrendWait},
		{"below average", []string{"₹100", "₹120", "₹140"}, "112", product.TrendBuy},
		{"above average", []string{"100", "120", "140"}, "128", product.TrendWait},
		{"middle band", []string{"100", "120", "140"}, "120", product.TrendNeutral},
		{"exactly floor band", []string{"100", "100", "100"}, "105", product.TrendBuy},
	}
	for _, tt := range tests {
		h := &fakeHistory{prices: tt.history}
		if got := Classify(context.Background(), h, "p1", tt.current); got != tt.want {
			t.Errorf("%s: Classify(%v, %s) = %s, want %s", tt.name, tt.history, tt.current, got, tt.want)
		}
	}
}
