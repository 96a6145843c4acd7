// Package googleshopping searches Google Shopping (India) through the
// SerpAPI REST endpoint. It is the first provider the pipeline tries.
package googleshopping

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/providers"
)

const (
	sourceName     = "Google Shopping"
	defaultBaseURL = "https://serpapi.com/search.json"
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
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("gl", "in")
	params.Set("hl", "en")
	params.Set("api_key", c.APIKey)

	body, err := providers.FetchJSON(ctx, sourceName, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return parseResults(body), nil
}

// parseResults maps the SerpAPI response onto the common product shape.
// A missing shopping_results field means no results, not an error.
func parseResults(body string) []product.Product {
	results := gjson.Get(body, "shopping_results")
	if !results.Exists() {
		return nil
	}

	var out []product.Product
	for _, r := range results.Array() {
		title := r.Get("title").Str
		price := r.Get("price").Str
		link := r.Get("product_link").Str
		if link == "" {
			link = r.Get("link").Str
		}
		if title == "" {
			continue
		}
		out = append(out, product.Product{
			ID:        product.Identity(title, sourceName, link),
			Title:     title,
			Price:     price,
			Link:      link,
			Source:    sourceName,
			Thumbnail: r.Get("thumbnail").Str,
			Rating:    r.Get("rating").Float(),
		})
	}
	return out
}
