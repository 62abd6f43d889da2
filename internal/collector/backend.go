package collector

import (
	"fmt"
	"time"
)

// Backend names accepted in configuration.
const (
	BackendYahoo     = "yahoo"
	BackendFinanceGo = "financego"
	BackendMock      = "mock"
)

// NewFetcher builds the Fetcher for a configured backend.
func NewFetcher(backend, baseURL, proxyURL string, timeout time.Duration) (Fetcher, error) {
	switch backend {
	case BackendYahoo, "":
		return NewYahooFetcher(baseURL, proxyURL, timeout), nil
	case BackendFinanceGo:
		return NewFinanceGoFetcher(), nil
	case BackendMock:
		return NewMockFetcher(100), nil
	default:
		return nil, fmt.Errorf("unknown data source backend %q", backend)
	}
}
