package tools

import (
	"context"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type AirlineRepository interface {
	FindByName(ctx context.Context, name string) (*domain.AirlineDetail, error)
	UpdateCallsign(ctx context.Context, name, callsign string) (bool, error)
}

type EmployeeRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Employee, error)
}
