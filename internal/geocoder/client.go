// Package geocoder resolves free-text delivery and restaurant addresses to
// geographic coordinates via an external geocoding HTTP API, with an
// in-process forever-cache in front of it.
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodcart/order-service/internal/geo"
)

// ErrUnresolved is returned when the provider has no result for an address.
// This is a definitive answer, not a failure, and is safe to cache.
var ErrUnresolved = errors.New("geocoder: address not resolved")

// TransportError reports a network failure or a non-2xx provider response.
// It is propagated as-is; the caller decides whether to retry or degrade.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoder: request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("geocoder: unexpected status %d from %s", e.Status, e.URL)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a provider response the client could not
// interpret (unexpected JSON shape, bad pos format).
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "geocoder: malformed provider response: " + e.Reason
}

// geocodeResponse mirrors the provider's JSON envelope. The first
// featureMember is the most relevant match.
type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Client calls the geocoding provider. One outbound HTTP request per Resolve
// call, no batching and no internal retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *MetricsRecorder
	logger     zerolog.Logger
}

// NewClient creates a geocoder client for the given provider endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "geocoder_client").Logger(),
	}
}

// Resolve geocodes a single address. Returns ErrUnresolved when the provider
// has no match, *TransportError on network/HTTP failure and
// *MalformedResponseError when the payload cannot be interpreted.
func (c *Client) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	start := time.Now()
	coords, err := c.resolve(ctx, address)
	c.metrics.RecordRequest(outcomeOf(err), time.Since(start))
	return coords, err
}

func (c *Client) resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	endpoint := c.baseURL + "/1.x"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Coordinates{}, fmt.Errorf("create geocode request: %w", err)
	}

	q := url.Values{}
	q.Set("geocode", address)
	q.Set("apikey", c.apiKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Coordinates{}, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return geo.Coordinates{}, &TransportError{URL: endpoint, Status: resp.StatusCode}
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return geo.Coordinates{}, &MalformedResponseError{Reason: err.Error()}
	}

	members := decoded.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		c.logger.Debug().Str("address", address).Msg("No geocode results")
		return geo.Coordinates{}, ErrUnresolved
	}

	// pos is "<lon> <lat>", longitude first. Swap when building coordinates.
	pos := members[0].GeoObject.Point.Pos
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return geo.Coordinates{}, &MalformedResponseError{Reason: fmt.Sprintf("unexpected pos %q", pos)}
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geo.Coordinates{}, &MalformedResponseError{Reason: fmt.Sprintf("bad longitude in pos %q", pos)}
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geo.Coordinates{}, &MalformedResponseError{Reason: fmt.Sprintf("bad latitude in pos %q", pos)}
	}

	return geo.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "resolved"
	case errors.Is(err, ErrUnresolved):
		return "unresolved"
	default:
		var te *TransportError
		if errors.As(err, &te) {
			return "transport_error"
		}
		return "malformed"
	}
}
