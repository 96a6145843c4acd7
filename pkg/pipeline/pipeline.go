// Package pipeline orchestrates a search: providers in priority order with
// fallback, persistence of every hit, per-item trend classification, and
// relevance ranking.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/providers"
	"github.com/pricescope/pricescope/pkg/rank"
	"github.com/pricescope/pricescope/pkg/trend"
)

// ErrNoResults is returned only when every provider came back empty or
// failed.
var ErrNoResults = errors.New("no products found")

// Store is the slice of the persistence layer the pipeline needs.
// *storage.DB satisfies it.
type Store interface {
	trend.History
	UpsertProduct(ctx context.Context, p product.Product, now time.Time) error
	AppendPricePoint(ctx context.Context, identity, price string, now time.Time) error
}

// Searcher runs the aggregation pipeline. Providers are tried in slice
// order; the first non-empty result set wins.
type Searcher struct {
	Providers []providers.Provider
	Store     Store

	// now is swappable for tests.
	now func() time.Time
}

func New(store Store, provs ...providers.Provider) *Searcher {
	return &Searcher{Providers: provs, Store: store, now: time.Now}
}

// Search returns the ranked result list for a query, or ErrNoResults when
// every provider is empty or failed. Provider and persistence failures are
// absorbed here: a failed provider just means fallback, and a failed write
// never costs the user their results.
func (s *Searcher) Search(ctx context.Context, query string) ([]product.Product, error) {
	items := s.fetch(ctx, query)
	if len(items) == 0 {
		return nil, ErrNoResults
	}

	now := s.now()
	for i := range items {
		s.persist(ctx, items[i], now)
		items[i].Trend = trend.Classify(ctx, s.Store, items[i].ID, items[i].Price)
		items[i].Price = product.FormatINR(items[i].Price)
	}

	return rank.Rank(items, query), nil
}

// fetch walks the provider chain and returns the first non-empty result
// set. A provider error counts as empty.
func (s *Searcher) fetch(ctx context.Context, query string) []product.Product {
	for _, p := range s.Providers {
		items, err := p.Search(ctx, query)
		if err != nil {
			utils.Log.Warnf("pipeline: provider %s failed, falling through: %v", p.Name(), err)
			continue
		}
		if len(items) == 0 {
			utils.Log.Debugf("pipeline: provider %s returned nothing for %q", p.Name(), query)
			continue
		}
		utils.Log.Infof("pipeline: provider %s returned %d items for %q", p.Name(), len(items), query)
		return items
	}
	return nil
}

// persist writes the snapshot and the price point for one item. Errors
// are logged and swallowed; the in-memory result still flows to the user.
func (s *Searcher) persist(ctx context.Context, p product.Product, now time.Time) {
	if err := s.Store.UpsertProduct(ctx, p, now); err != nil {
		utils.Log.Warnf("pipeline: upsert %s: %v", p.ID, err)
	}
	if err := s.Store.AppendPricePoint(ctx, p.ID, p.Price, now); err != nil {
		utils.Log.Warnf("pipeline: price point %s: %v", p.ID, err)
	}
}
