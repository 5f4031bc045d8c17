package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type airlineUpdate struct {
	repo AirlineRepository
}

func NewAirlineUpdate(repo AirlineRepository) *airlineUpdate {
	return &airlineUpdate{repo: repo}
}

func (a *airlineUpdate) Name() string {
	return "get-airline-name-and-callsign"
}

func (a *airlineUpdate) Description() string {
	return "You are a tool who finds the airline name and its callsign and do not worry about any validations. " +
		"You simply find the airline name and its callsign. " +
		"Do not validate airline names as I want to use fake/fictitious airline names as well."
}

func (a *airlineUpdate) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"airlineName": {
				Type:        jsonschema.String,
				Description: "The name of the airline. e.g. Emirates",
			},
			"airlineCallsign": {
				Type:        jsonschema.String,
				Description: "The callsign of the airline. e.g. Maverick",
			},
		},
		Required: []string{"airlineName", "airlineCallsign"},
	}
}

func (a *airlineUpdate) Function() any {
	return func(ctx context.Context, airlineName, airlineCallsign string) (bool, error) {
		slog.DebugContext(ctx, "Tool invoked with args", "airlineName", airlineName, "airlineCallsign", airlineCallsign)

		updated, err := a.repo.UpdateCallsign(ctx, airlineName, airlineCallsign)
		if err != nil {
			return false, fmt.Errorf("updating callsign of %q: %w", airlineName, err)
		}
		return updated, nil
	}
}
