package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/retry"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OpenMeteoProvider fetches current conditions from the Open-Meteo
// forecast endpoint. The API needs no key, so the provider is always
// available; callers still treat a nil snapshot as "no weather signal".
type OpenMeteoProvider struct {
	session *http.Client
	baseURL string
}

func NewOpenMeteoProvider() *OpenMeteoProvider {
	return &OpenMeteoProvider{
		session: &http.Client{Timeout: 5 * time.Second},
		baseURL: "https://api.open-meteo.com",
	}
}

type currentResponse struct {
	Current struct {
		TemperatureC  float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"` // mm over the last hour
		WeatherCode   int     `json:"weather_code"`  // WMO code
	} `json:"current"`
}

// Snapshot returns the current conditions at a point.
func (o *OpenMeteoProvider) Snapshot(ctx context.Context, at domain.Coordinates) (*domain.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", at.Lat))
	q.Set("longitude", fmt.Sprintf("%.4f", at.Lon))
	q.Set("current", "temperature_2m,precipitation,weather_code")
	endpoint := o.baseURL + "/v1/forecast?" + q.Encode()

	resp, err := retry.Do(ctx, 2, 150*time.Millisecond, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := o.session.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := fmt.Errorf("open-meteo status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			if resp.StatusCode == 429 || resp.StatusCode >= 500 {
				return nil, err
			}
			return nil, retry.Permanent(err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	var cr currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	cond, err := conditionFromCode(cr.Current.WeatherCode)
	if err != nil {
		return nil, err
	}

	return &domain.WeatherSnapshot{
		Condition:     cond,
		TemperatureC:  cr.Current.TemperatureC,
		Precipitation: cr.Current.Precipitation,
	}, nil
}

// conditionFromCode collapses WMO weather codes into the coarse
// condition labels the scorer understands.
func conditionFromCode(code int) (string, error) {
	switch {
	case code == 0:
		return "clear", nil
	case code >= 1 && code <= 3:
		return "cloudy", nil
	case code >= 45 && code <= 48:
		return "fog", nil
	case code >= 51 && code <= 57:
		return "drizzle", nil
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "rain", nil
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "snow", nil
	case code >= 95 && code <= 99:
		return "thunderstorm", nil
	default:
		return "", errors.New("unrecognized WMO weather code")
	}
}
