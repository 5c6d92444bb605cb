package toolserver

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/weatherchat/weatherchat/pkg/weather"
)

// Definition couples one advertised tool with its validation schema and
// handler. Handlers always return caller-facing text; failures inside a
// tool body are text results, not errors.
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	schema      *Schema
	Handle      func(ctx context.Context, args map[string]any) string
}

type alertsInput struct {
	State string `json:"state" jsonschema_description:"Two-letter US state code (e.g. CA, NY)"`
}

type forecastInput struct {
	Latitude  float64 `json:"latitude" jsonschema_description:"Latitude of the location"`
	Longitude float64 `json:"longitude" jsonschema_description:"Longitude of the location"`
}

type countryInput struct {
	Country string `json:"country" jsonschema_description:"Name of the South American country (in Portuguese)"`
}

type stateCapitalInput struct {
	State string `json:"state" jsonschema_description:"Two-letter US state code (e.g. CA, NY)"`
}

// Definitions returns the full tool set backed by the given NWS client.
func Definitions(nws *weather.NWSClient) []Definition {
	alertsAdv, alertsSchema := reflectSchema[alertsInput]()
	forecastAdv, forecastSchema := reflectSchema[forecastInput]()
	countryAdv, countrySchema := reflectSchema[countryInput]()
	stateAdv, stateSchema := reflectSchema[stateCapitalInput]()

	return []Definition{
		{
			Name:        "get_alerts",
			Description: "Get weather alerts for a US state.",
			InputSchema: alertsAdv,
			schema:      alertsSchema,
			Handle: func(ctx context.Context, args map[string]any) string {
				return nws.Alerts(ctx, stringArg(args, "state"))
			},
		},
		{
			Name:        "get_forecast",
			Description: "Get weather forecast for a location.",
			InputSchema: forecastAdv,
			schema:      forecastSchema,
			Handle: func(ctx context.Context, args map[string]any) string {
				return nws.Forecast(ctx, floatArg(args, "latitude"), floatArg(args, "longitude"))
			},
		},
		{
			Name:        "get_south_american_capital",
			Description: "Get the capital of a South American country.",
			InputSchema: countryAdv,
			schema:      countrySchema,
			Handle: func(_ context.Context, args map[string]any) string {
				return weather.SouthAmericanCapital(stringArg(args, "country"))
			},
		},
		{
			Name:        "get_us_state_capital",
			Description: "Get the capital of a US state.",
			InputSchema: stateAdv,
			schema:      stateSchema,
			Handle: func(_ context.Context, args map[string]any) string {
				return weather.USStateCapital(stringArg(args, "state"))
			},
		},
	}
}

// Argument extraction runs after schema validation; a missing or mistyped
// value never reaches a handler.

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
