// Package flipkart searches the Flipkart marketplace through the
// SearchAPI REST endpoint. Second in the pipeline's fallback order.
package flipkart

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/providers"
)

const (
	sourceName     = "Flipkart"
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
	params.Set("engine", "flipkart")
	params.Set("q", query)
	params.Set("api_key", c.APIKey)

	body, err := providers.FetchJSON(ctx, sourceName, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseResults(body), nil
}

func parseResults(body string) []product.Product {
	results := gjson.Get(body, "product_results")
	if !results.Exists() {
		return nil
	}

	var out []product.Product
	for _, r := range results.Array() {
		title := r.Get("title").Str
		if title == "" {
			title = r.Get("name").Str
		}
		if title == "" {
			continue
		}
		price := r.Get("price").Str
		if price == "" {
			// Flipkart quotes the discounted amount as a bare number.
			if p := r.Get("current_price"); p.Exists() {
				price = p.String()
			}
		}
		link := r.Get("link").Str
		thumb := r.Get("thumbnail").Str
		if thumb == "" {
			thumb = r.Get("image").Str
		}
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
