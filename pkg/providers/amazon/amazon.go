// Package amazon searches amazon.in through the SearchAPI REST endpoint.
// Last in the pipeline's fallback order.
package amazon

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/providers"
)

const (
	sourceName     = "Amazon"
	defaultBaseURL = "https://www.searchapi.io/api/v1/search"
)

type Client struct {
	APIKey  string
	BaseURL string
}

func New(apiKey string) *Client {
	return &Client{APIKey: apiKey, BaseURL: defaultBaseURL}
}

func (c *Client) Name() string { return sourceName }

func (c *Client) Search(ctx context.Context, query string) ([]product.Product, error) {
	params := url.Values{}
	params.Set("engine", "amazon_search")
	params.Set("q", query)
	params.Set("amazon_domain", "amazon.in")
	params.Set("api_key", c.APIKey)

	body, err := providers.FetchJSON(ctx, sourceName, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseResults(body), nil
}

func parseResults(body string) []product.Product {
	results := gjson.Get(body, "organic_results")
	if !results.Exists() {
		return nil
	}

	var out []product.Product
	for _, r := range results.Array() {
		title := r.Get("title").Str
		if title == "" {
			continue
		}
		price := r.Get("price").Str
		if price == "" {
			if p := r.Get("price.raw"); p.Exists() {
				price = p.Str
			}
		}
		thumb := r.Get("thumbnail").Str
		// Amazon search responses carry sponsored placeholders and
		// unavailable listings with neither price nor image. Drop them.
		if price == "" && thumb == "" {
			continue
		}
		link := r.Get("link").Str
		out = append(out, product.Product{
			ID:        product.Identity(title, sourceName, link),
			Title:     title,
			Price:     price,
			Link:      link,
			Source:    sourceName,
			Thumbnail: thumb,
			Rating:    r.Get("rating").Float(),
		})
	}
	return out
}
