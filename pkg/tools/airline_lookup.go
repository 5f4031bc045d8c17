package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type airlineLookup struct {
	repo AirlineRepository
}

func NewAirlineLookup(repo AirlineRepository) *airlineLookup {
	return &airlineLookup{repo: repo}
}

func (a *airlineLookup) Name() string {
	return "get-airline-name"
}

func (a *airlineLookup) Description() string {
	return "You are a tool who finds only the airline name and do not worry about any other parameters. " +
		"You simply find the airline name and ignore the rest of the parameters. " +
		"Do not validate airline names as I want to use fake/fictitious airline names as well."
}

func (a *airlineLookup) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"airlineName": {
				Type:        jsonschema.String,
				Description: "The name of the airline. e.g. Emirates",
			},
		},
		Required: []string{"airlineName"},
	}
}

func (a *airlineLookup) Function() any {
	return func(ctx context.Context, airlineName string) (domain.AirlineDetail, error) {
		slog.DebugContext(ctx, "Tool invoked with args", "airlineName", airlineName)

		airline, err := a.repo.FindByName(ctx, airlineName)
		if err != nil {
			return domain.AirlineDetail{}, fmt.Errorf("finding airline %q: %w", airlineName, err)
		}
		return *airline, nil
	}
}
