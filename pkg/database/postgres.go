package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewPostgres opens the database at dsn, checks the connection and applies
// pending migrations.
func NewPostgres(dsn string) (*sql.DB, error) {
	db := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	n, err := migrate.Exec(db, "postgres", migrations(), migrate.Up)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("postgres ready", "migrations_applied", n)

	return db, nil
}

func migrations() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "0001_employees",
				Up: []string{`
					create table if not exists employees (
						id text primary key,
						name text not null,
						address text not null default '',
						phone text not null default '',
						created_at timestamptz not null default now()
					)`,
					`create index if not exists employees_lower_name_idx on employees (lower(name))`,
				},
				Down: []string{`drop table if exists employees`},
			},
			{
				Id: "0002_seed_employees",
				Up: []string{`
					insert into employees (id, name, address, phone) values
						('7b3f1c2e-0f5a-4d8e-9a61-2c4b8e0d1a01', 'Rahul Kumar', 'King St, Hyderabad, India', '9876543210'),
						('4e9d2a7c-61b3-4f0e-8c25-9d7a3b5e2f02', 'Priya Sharma', 'Roy St, Bengaluru, India', '9911002233'),
						('c1a8f5e3-2d4b-4a9c-b7e6-5f3d1c9a8b03', 'John Doe', 'Main St, Pune, India', '9822113344')
					on conflict (id) do nothing`,
				},
				Down: []string{`delete from employees where id in (
					'7b3f1c2e-0f5a-4d8e-9a61-2c4b8e0d1a01',
					'4e9d2a7c-61b3-4f0e-8c25-9d7a3b5e2f02',
					'c1a8f5e3-2d4b-4a9c-b7e6-5f3d1c9a8b03')`,
				},
			},
		},
	}
}
