package tools

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type weather struct{}

func NewWeather() *weather {
	return &weather{}
}

func (w *weather) Name() string {
	return "get-current-weather"
}

func (w *weather) Description() string {
	return "Get current weather"
}

func (w *weather) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"city": {
				Type:        jsonschema.String,
				Description: "The city, e.g. New Delhi, India",
			},
		},
		Required: []string{"city"},
	}
}

func (w *weather) Function() any {
	return func(_ context.Context, city string) (string, error) {
		return fmt.Sprintf("Currently %s's weather is nice.", city), nil
	}
}
