package astro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"tara/pkg/flight"
)

const DefaultBaseURL = "https://json.astrologyapi.com/v1"

// ErrUnconfigured means the astrology credentials are absent. Resolved
// once at startup: callers hold either a usable *Client or know the
// service is unconfigured, instead of null-checking per call.
var ErrUnconfigured = errors.New("astrology api credentials not configured")

// Client calls the external astrology API with Basic Auth credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userID     string
	apiKey     string

	// Planetary positions for a birth moment never change; identical
	// chart requests coalesce and hit the cache.
	planets *flight.Cache[APIRequest, []PlanetData]
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient resolves the credential configuration once. Missing
// credentials yield (nil, ErrUnconfigured).
func NewClient(userID, apiKey string, opts ...Option) (*Client, error) {
	if userID == "" || apiKey == "" {
		return nil, ErrUnconfigured
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		userID:     userID,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.planets = flight.NewCache(c.fetchPlanets)
	return c, nil
}

// FetchPlanets returns the D1 planetary positions for a birth moment.
func (c *Client) FetchPlanets(ctx context.Context, req APIRequest) ([]PlanetData, error) {
	return c.planets.Get(ctx, req)
}

func (c *Client) fetchPlanets(ctx context.Context, req APIRequest) ([]PlanetData, error) {
	body, status, err := c.post(ctx, "/planets", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("astrology api returned %d: %s", status, string(body))
	}

	var planets []PlanetData
	if err := json.Unmarshal(body, &planets); err != nil {
		return nil, fmt.Errorf("parsing planets response: %w", err)
	}
	return planets, nil
}

// Proxy forwards a raw JSON payload to the planets endpoint and returns
// the upstream status and body verbatim.
func (c *Client) Proxy(ctx context.Context, payload []byte) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/planets", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.userID, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("astrology api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// sampleRequest is fixed birth data used only to probe credentials.
var sampleRequest = APIRequest{
	Day: 15, Month: 1, Year: 1990,
	Hour: 10, Min: 30,
	Lat: 28.6139, Lon: 77.2090, Tzone: 5.5,
}

// ValidateCredentials probes the API with sample birth data. Success is
// judged on HTTP status alone, not response content. A definitive
// credential rejection returns (false, nil); transport or server errors
// return (false, err).
func (c *Client) ValidateCredentials(ctx context.Context) (bool, error) {
	body, status, err := c.post(ctx, "/planets", sampleRequest)
	if err != nil {
		return false, err
	}
	switch {
	case status >= 200 && status < 300:
		return true, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		log.Warn("astrology credentials rejected", "status", status, "body", string(body))
		return false, nil
	default:
		return false, fmt.Errorf("astrology api returned %d: %s", status, string(body))
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.userID, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("astrology api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
