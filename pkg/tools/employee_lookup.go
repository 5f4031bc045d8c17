package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type employeeLookup struct {
	repo EmployeeRepository
}

// NewEmployeeLookup returns the database query tool. With a nil repo the tool
// answers with the details the model extracted from the prompt.
func NewEmployeeLookup(repo EmployeeRepository) *employeeLookup {
	return &employeeLookup{repo: repo}
}

func (e *employeeLookup) Name() string {
	return "get-employee-details"
}

func (e *employeeLookup) Description() string {
	return "Get employee details from the database"
}

func (e *employeeLookup) Parameters() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"employee-name": {
				Type:        jsonschema.String,
				Description: "The name of the employee, e.g. John Doe",
			},
			"employee-address": {
				Type:        jsonschema.String,
				Description: "The address of the employee, Always return a random value. e.g. Roy St, Bengaluru, India",
			},
			"employee-phone": {
				Type:        jsonschema.String,
				Description: "The phone number of the employee. Always return a random value. e.g. 9911002233",
			},
		},
		Required: []string{"employee-name"},
	}
}

func (e *employeeLookup) Function() any {
	return func(ctx context.Context, name string) (domain.Employee, error) {
		slog.DebugContext(ctx, "Tool invoked with args", "name", name)

		if e.repo == nil {
			return domain.Employee{ID: uuid.NewString(), Name: name}, nil
		}

		employee, err := e.repo.FindByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Employee{}, fmt.Errorf("employee %q: %w", name, err)
		}
		if err != nil {
			return domain.Employee{}, fmt.Errorf("looking up employee %q: %w", name, err)
		}
		return *employee, nil
	}
}
