package ghfetch

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// lowRateLimit is the remaining-request count at which a warning is logged.
const lowRateLimit = 10

func newGitHubClient(token, baseURL string) (*github.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		}
	}
	httpClient := &http.Client{
		Transport: &rateLimitTransport{base: base},
		Timeout:   30 * time.Second,
	}
	client := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}
	return client, nil
}

// rateLimitTransport reports GitHub rate-limit pressure. It never waits or
// retries: an exhausted limit fails the call like any other upstream error.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	remaining, parseErr := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	if parseErr != nil {
		return resp, nil
	}
	switch {
	case remaining == 0 && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests):
		slog.Warn("github rate limit exhausted",
			"path", req.URL.Path, "reset", resetTime(resp.Header))
	case remaining <= lowRateLimit:
		slog.Warn("approaching github rate limit",
			"remaining", remaining, "reset", resetTime(resp.Header))
	}
	return resp, nil
}

func resetTime(h http.Header) time.Time {
	secs, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
