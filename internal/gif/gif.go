// Package gif fetches a reaction image from the Giphy search API.
package gif

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"time"
)

const (
	defaultBaseURL = "https://api.giphy.com"
	searchLimit    = 25
	// pg-13 is the "moderate" rating: nothing beyond it is requested.
	searchRating = "pg-13"
)

// Lists holds the search keywords and the images served when search is
// unusable. Fetchers copy it on construction.
type Lists struct {
	Keywords     []string
	FallbackURLs []string
}

// DefaultLists returns the built-in keyword and fallback lists.
func DefaultLists() Lists {
	return Lists{
		Keywords: []string{
			"coding fail",
			"facepalm",
			"programming fail",
			"tech fail",
			"debugging",
			"computer rage",
			"funny code",
			"nerd laugh",
		},
		FallbackURLs: []string{
			"https://media.giphy.com/media/JRF85A7Bcl2YU/giphy.gif",
			"https://media.giphy.com/media/pPhyAv5t9V8djyRFJH/giphy.gif",
			"https://media.giphy.com/media/hvq8ONQhQ1XLq/giphy.gif",
			"https://media.giphy.com/media/l4FGGafcOHmrlQxG0/giphy.gif",
			"https://media.giphy.com/media/xUA7aZhmzXeCXq80Hm/giphy.gif",
		},
	}
}

// Source records where an Image came from.
type Source int

const (
	SourceSearch Source = iota
	SourceFallback
)

func (s Source) String() string {
	if s == SourceFallback {
		return "fallback"
	}
	return "search"
}

// Image is the outcome of a fetch. URL is always set.
type Image struct {
	URL     string
	Source  Source
	Keyword string
}

// Fetcher picks a random reaction image.
type Fetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	lists   Lists
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL points the Fetcher at a different API root.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithLists replaces the keyword and fallback lists. An empty list keeps
// the default for that list.
func WithLists(l Lists) Option {
	return func(f *Fetcher) {
		if len(l.Keywords) > 0 {
			f.lists.Keywords = slices.Clone(l.Keywords)
		}
		if len(l.FallbackURLs) > 0 {
			f.lists.FallbackURLs = slices.Clone(l.FallbackURLs)
		}
	}
}

// NewFetcher returns a Fetcher using apiKey. An empty key is allowed; the
// search then fails at request time and a fallback is served.
func NewFetcher(apiKey string, opts ...Option) *Fetcher {
	f := &Fetcher{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		lists:   DefaultLists(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type searchResponse struct {
	Meta struct {
		Msg string `json:"msg"`
	} `json:"meta"`
	Data []struct {
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// Fetch returns a random image for a random keyword. It never fails: any
// search error or an empty result set yields a pick from the fallback list.
// A nil rng uses the global source.
func (f *Fetcher) Fetch(ctx context.Context, rng *rand.Rand) Image {
	keyword := f.lists.Keywords[intN(rng, len(f.lists.Keywords))]

	urls, err := f.search(ctx, keyword)
	if err == nil && len(urls) == 0 {
		err = fmt.Errorf("no results for %q", keyword)
	}
	if err != nil {
		slog.Warn("gif search failed, using fallback", "keyword", keyword, "error", err)
		return Image{
			URL:     f.lists.FallbackURLs[intN(rng, len(f.lists.FallbackURLs))],
			Source:  SourceFallback,
			Keyword: keyword,
		}
	}
	return Image{
		URL:     urls[intN(rng, len(urls))],
		Source:  SourceSearch,
		Keyword: keyword,
	}
}

func (f *Fetcher) search(ctx context.Context, keyword string) ([]string, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("no giphy API key configured")
	}
	q := url.Values{}
	q.Set("api_key", f.apiKey)
	q.Set("q", keyword)
	q.Set("limit", fmt.Sprint(searchLimit))
	q.Set("rating", searchRating)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/v1/gifs/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating giphy request: %w", redactKey(err))
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("giphy request: %w", redactKey(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result searchResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&result)
		if result.Meta.Msg != "" {
			return nil, fmt.Errorf("giphy returned status %d: %s", resp.StatusCode, result.Meta.Msg)
		}
		return nil, fmt.Errorf("giphy returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding giphy response: %w", err)
	}
	urls := make([]string, 0, len(result.Data))
	for _, d := range result.Data {
		if u := d.Images.Original.URL; u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// redactKey strips the api_key parameter from the URL carried by a
// *url.Error, which otherwise ends up verbatim in logs.
func redactKey(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		uerr.URL = "<redacted>"
		return err
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	uerr.URL = u.String()
	return err
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
