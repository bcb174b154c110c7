package yandexmaps

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

	"go.uber.org/zap"
)

const GeocoderName = "yandex_maps"

var ErrGeocodeFailed = errors.New("geocoding failed")

// Client calls the Yandex geocoder HTTP API. The API key is injected at
// construction; the HTTP timeout bounds every call so a slow provider
// never blocks the owning entity's save.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(apiKey string, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

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

func (c *Client) Geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("geocode", address)
	params.Set("format", "json")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrGeocodeFailed, err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrGeocodeFailed, err)
	}
	defer response.Body.Close() //nolint:errcheck // nothing to do about a failed close

	if response.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: provider returned status %d", ErrGeocodeFailed, response.StatusCode)
	}

	var decoded geocodeResponse
	if err = json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return 0, 0, fmt.Errorf("%w: malformed response: %w", ErrGeocodeFailed, err)
	}

	members := decoded.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return 0, 0, fmt.Errorf("%w: no results for address", ErrGeocodeFailed)
	}

	// pos is "lon lat"
	fields := strings.Fields(members[0].GeoObject.Point.Pos)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: malformed point %q", ErrGeocodeFailed, members[0].GeoObject.Point.Pos)
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: malformed longitude: %w", ErrGeocodeFailed, err)
	}

	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: malformed latitude: %w", ErrGeocodeFailed, err)
	}

	c.logger.Info("resolved address", zap.String("address", address), zap.Float64("lon", lon), zap.Float64("lat", lat))

	return lon, lat, nil
}
