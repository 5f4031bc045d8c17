package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *employeeRepository {
	return &employeeRepository{db: db}
}

func (repo *employeeRepository) FindByName(ctx context.Context, name string) (*domain.Employee, error) {
	q := `
		select id,
			name,
			address,
			phone
		from employees
		where lower(name) = lower($1)
		limit 1
	`

	e := domain.Employee{}
	if err := repo.db.QueryRowContext(ctx, q, name).Scan(
		&e.ID,
		&e.Name,
		&e.Address,
		&e.Phone,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning employee row: %w", err)
	}

	return &e, nil
}
