package cmd

import (
	"github.com/spf13/viper"

	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/providers"
	"github.com/pricescope/pricescope/pkg/providers/amazon"
	"github.com/pricescope/pricescope/pkg/providers/flipkart"
	"github.com/pricescope/pricescope/pkg/providers/googleshopping"
)

// buildProviders assembles the upstream provider chain in priority order.
// Providers whose API key is missing are skipped with a log line, the
// same way the rest of the chain covers for a failing provider.
func buildProviders() []providers.Provider {
	var out []providers.Provider

	serpKey := viper.GetString("serpapi.apikey")
	if serpKey != "" {
		out = append(out, googleshopping.New(serpKey))
	} else {
		utils.Log.Info("Skipping Google Shopping: serpapi.apikey not found in config.")
	}

	searchKey := viper.GetString("searchapi.apikey")
	if searchKey != "" {
		out = append(out, flipkart.New(searchKey))
		out = append(out, amazon.New(searchKey))
	} else {
		utils.Log.Info("Skipping Flipkart and Amazon: searchapi.apikey not found in config.")
	}

	return out
}
