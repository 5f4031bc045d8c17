package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type fuelPrice struct{}

func NewFuelPrice() *fuelPrice {
	return &fuelPrice{}
}

func (f *fuelPrice) Name() string {
	return "get-current-fuel-price"
}

func (f *fuelPrice) Description() string {
	return "Get current fuel price"
}

func (f *fuelPrice) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"location": {
				Type:        jsonschema.String,
				Description: "The city, e.g. New Delhi, India",
			},
			"fuelType": {
				Type:        jsonschema.String,
				Description: "The fuel type.",
				Enum:        []string{"petrol", "diesel"},
			},
		},
		Required: []string{"location", "fuelType"},
	}
}

func (f *fuelPrice) Function() any {
	return func(ctx context.Context, location, fuelType string) (string, error) {
		slog.DebugContext(ctx, "Tool invoked with args", "location", location, "fuelType", fuelType)

		return fmt.Sprintf("Current price of %s in %s is Rs.103/L", fuelType, location), nil
	}
}
