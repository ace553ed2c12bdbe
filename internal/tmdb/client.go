package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Clark-Hu/movie-finder/internal/domain"
)

const (
	searchPath   = "/search/movie"
	discoverPath = "/discover/movie"
)

// Client defines the contract for querying the movie metadata provider.
type Client interface {
	Search(ctx context.Context, term string) ([]domain.Movie, error)
	DiscoverPopular(ctx context.Context) ([]domain.Movie, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
	Logger     logrus.FieldLogger
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

// NewHTTPClient constructs a new HTTP-backed metadata client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &HTTPClient{
		baseURL: parsed,
		apiKey:  opts.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger.WithField("component", "tmdb"),
	}
	if opts.RatePerSec > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return c, nil
}

// Search looks movies up by title. An empty term falls back to
// DiscoverPopular.
func (c *HTTPClient) Search(ctx context.Context, term string) ([]domain.Movie, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return c.DiscoverPopular(ctx)
	}
	rawQuery := "query=" + encodeQueryComponent(term) + "&api_key=" + encodeQueryComponent(c.apiKey)
	return c.get(ctx, searchPath, rawQuery)
}

// DiscoverPopular lists movies ordered by descending popularity.
func (c *HTTPClient) DiscoverPopular(ctx context.Context) ([]domain.Movie, error) {
	return c.get(ctx, discoverPath, "sort_by=popularity.desc")
}

func (c *HTTPClient) get(ctx context.Context, path, rawQuery string) ([]domain.Movie, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Endpoint: path, Err: err}
		}
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	endpoint.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", path).Warn("tmdb: request failed")
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithFields(logrus.Fields{
			"endpoint": path,
			"status":   resp.StatusCode,
		}).Warn("tmdb: unexpected status")
		return nil, &TransportError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("decode tmdb response: %w", err)}
	}

	movies, err := payload.convert(path)
	if err != nil {
		var soft *ProviderSoftError
		if errors.As(err, &soft) {
			c.logger.WithFields(logrus.Fields{
				"endpoint": path,
				"message":  soft.Message,
			}).Info("tmdb: provider flagged failure")
		}
		return nil, err
	}
	return movies, nil
}

// encodeQueryComponent percent-encodes s for use as a query value, with
// spaces as %20 rather than '+'.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// PosterURL joins an image base with a provider poster path. It returns ""
// when the movie has no poster.
func PosterURL(imageBase, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBase, "/") + "/" + strings.TrimLeft(posterPath, "/")
}
