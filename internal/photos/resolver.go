package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Source records which step of the fallback chain produced a photo, so
// the operator always knows what query the image actually came from.
type Source string

const (
	SourcePrimary     Source = "primary"
	SourceFallback    Source = "fallback"
	SourcePlaceholder Source = "placeholder"
)

// ResolvedPhoto is the transient result of a chain run: a displayable
// URL plus the query that produced it.
type ResolvedPhoto struct {
	URL    string
	Query  string
	Source Source
}

const defaultBaseURL = "https://api.unsplash.com"

// placeholderURL is a permanently hosted image used when every provider
// attempt fails. The chain guarantees callers always get something.
const placeholderURL = "https://images.unsplash.com/photo-1542831371-29b0f74f9713?q=80&w=1000&auto=format&fit=crop"

var defaultFallbackQueries = []string{
	"technology",
	"laptop coding",
	"data science",
	"workspace desk",
}

type Resolver struct {
	accessKey       string
	baseURL         string
	client          *http.Client
	fallbackQueries []string
}

func NewResolver(accessKey string) *Resolver {
	return &Resolver{
		accessKey:       accessKey,
		baseURL:         defaultBaseURL,
		client:          &http.Client{Timeout: 10 * time.Second},
		fallbackQueries: defaultFallbackQueries,
	}
}

// Resolve runs the fallback chain: primary query, then a generic
// on-topic query, then the static placeholder. It never fails outward.
func (r *Resolver) Resolve(ctx context.Context, primaryQuery string) ResolvedPhoto {
	if r.accessKey == "" {
		log.Println("Photo provider key missing, using placeholder image")
		return ResolvedPhoto{URL: placeholderURL, Query: "", Source: SourcePlaceholder}
	}

	query := strings.TrimSpace(primaryQuery)
	if query != "" {
		if photoURL, err := r.fetchRandom(ctx, query); err == nil {
			return ResolvedPhoto{URL: photoURL, Query: query, Source: SourcePrimary}
		} else {
			log.Printf("Primary photo query %q failed: %v", query, err)
		}
	}

	fallback := r.fallbackQueries[rand.Intn(len(r.fallbackQueries))]
	if photoURL, err := r.fetchRandom(ctx, fallback); err == nil {
		return ResolvedPhoto{URL: photoURL, Query: fallback, Source: SourceFallback}
	} else {
		log.Printf("Fallback photo query %q failed: %v", fallback, err)
	}

	return ResolvedPhoto{URL: placeholderURL, Query: "", Source: SourcePlaceholder}
}

func (r *Resolver) fetchRandom(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/photos/random?query=%s&orientation=landscape&client_id=%s",
		r.baseURL, url.QueryEscape(query), url.QueryEscape(r.accessKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// Anything but 200 counts as "no match" and advances the chain.
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("could not decode provider response: %w", err)
	}
	if payload.URLs.Regular == "" {
		return "", fmt.Errorf("provider response had no photo URL")
	}
	return payload.URLs.Regular, nil
}

// PlaceholderURL exposes the terminal chain result for publish-time reuse.
func PlaceholderURL() string {
	return placeholderURL
}
