package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the shared client handed to the provider SDK.
// Provider calls can run for minutes under a large thinking budget, so the
// timeout comes from config rather than a hard-coded value.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
