// Package weather implements the tool bodies: National Weather Service
// fetches and static capital lookups. Network failures never escape as
// errors; every failure path produces a caller-facing text result.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultBaseURL is the NWS API endpoint.
	DefaultBaseURL = "https://api.weather.gov"

	userAgent      = "weather-app/1.0"
	requestTimeout = 30 * time.Second

	maxForecastPeriods = 5
)

// NWSClient fetches from the National Weather Service API with a fixed
// request timeout and the API's required headers.
type NWSClient struct {
	baseURL string
	http    *http.Client
}

// NewNWSClient builds a client for the given base URL, defaulting to the
// public NWS endpoint.
func NewNWSClient(baseURL string) *NWSClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &NWSClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type alertsResponse struct {
	// Pointer distinguishes a payload without "features" (fetch problem)
	// from one with an empty list (no active alerts).
	Features *[]alertFeature `json:"features"`
}

type alertFeature struct {
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Event       string `json:"event"`
	AreaDesc    string `json:"areaDesc"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []forecastPeriod `json:"periods"`
	} `json:"properties"`
}

type forecastPeriod struct {
	Name             string  `json:"name"`
	Temperature      float64 `json:"temperature"`
	TemperatureUnit  string  `json:"temperatureUnit"`
	WindSpeed        string  `json:"windSpeed"`
	WindDirection    string  `json:"windDirection"`
	DetailedForecast string  `json:"detailedForecast"`
}

// Alerts returns active weather alerts for a US state as readable text.
func (c *NWSClient) Alerts(ctx context.Context, state string) string {
	url := fmt.Sprintf("%s/alerts/active/area/%s", c.baseURL, state)
	var data alertsResponse
	if err := c.get(ctx, url, &data); err != nil || data.Features == nil {
		return "Unable to fetch alerts or no alerts found."
	}
	features := *data.Features
	if len(features) == 0 {
		return "No active alerts for this state."
	}
	blocks := make([]string, 0, len(features))
	for _, f := range features {
		blocks = append(blocks, formatAlert(f.Properties))
	}
	return strings.Join(blocks, "\n---\n")
}

// Forecast returns the short-term forecast for a coordinate as readable
// text: the grid point lookup first, then at most maxForecastPeriods
// periods in the order the API supplies them.
func (c *NWSClient) Forecast(ctx context.Context, latitude, longitude float64) string {
	pointsURL := fmt.Sprintf("%s/points/%s,%s", c.baseURL,
		formatCoord(latitude), formatCoord(longitude))
	var points pointsResponse
	if err := c.get(ctx, pointsURL, &points); err != nil || points.Properties.Forecast == "" {
		return "Unable to fetch forecast data for this location."
	}

	var forecast forecastResponse
	if err := c.get(ctx, points.Properties.Forecast, &forecast); err != nil {
		return "Unable to fetch detailed forecast."
	}

	periods := forecast.Properties.Periods
	if len(periods) > maxForecastPeriods {
		periods = periods[:maxForecastPeriods]
	}
	blocks := make([]string, 0, len(periods))
	for _, p := range periods {
		blocks = append(blocks, formatPeriod(p))
	}
	return strings.Join(blocks, "\n---\n")
}

func (c *NWSClient) get(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "weather: build request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "weather: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Newf("weather: status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "weather: decode response")
	}
	return nil
}

func formatAlert(p alertProperties) string {
	return fmt.Sprintf("\nEvent: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstructions: %s\n",
		orDefault(p.Event, "Unknown"),
		orDefault(p.AreaDesc, "Unknown"),
		orDefault(p.Severity, "Unknown"),
		orDefault(p.Description, "No description available"),
		orDefault(p.Instruction, "No specific instructions provided"),
	)
}

func formatPeriod(p forecastPeriod) string {
	return fmt.Sprintf("\n%s:\nTemperature: %s°%s\nWind: %s %s\nForecast: %s\n",
		p.Name,
		strconv.FormatFloat(p.Temperature, 'f', -1, 64),
		p.TemperatureUnit,
		p.WindSpeed,
		p.WindDirection,
		p.DetailedForecast,
	)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
