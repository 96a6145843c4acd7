package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const requestTimeout = 15 * time.Second

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0"

var httpClient = &http.Client{Timeout: requestTimeout}

// FetchJSON performs a GET against an upstream API and returns the raw
// body after validating it is JSON. Every failure mode maps onto an
// *UpstreamError so callers never see transport details. There is no
// retry: falling through to the next provider is the only resilience
// mechanism.
func FetchJSON(ctx context.Context, providerName, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &UpstreamError{Provider: providerName, Kind: ErrBadResponse, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &UpstreamError{Provider: providerName, Kind: ErrTimeout, Err: err}
		}
		return "", &UpstreamError{Provider: providerName, Kind: ErrBadResponse, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: providerName, Kind: ErrBadResponse, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{
			Provider: providerName,
			Kind:     ErrBadResponse,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	bodyStr := string(body)
	if !gjson.Valid(bodyStr) {
		return "", &UpstreamError{Provider: providerName, Kind: ErrMalformedPayload, Err: errors.New("response is not valid JSON")}
	}
	return bodyStr, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
