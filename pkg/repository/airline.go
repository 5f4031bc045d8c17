package repository

import (
	"context"
	"fmt"

	"github.com/couchbase/gocb/v2"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

type queryRows interface {
	Next() bool
	Row(valuePtr any) error
	Err() error
	Close() error
}

type airlineQuerier interface {
	Query(statement string, opts *gocb.QueryOptions) (queryRows, error)
}

type clusterQuerier struct {
	cluster *gocb.Cluster
}

func (q clusterQuerier) Query(statement string, opts *gocb.QueryOptions) (queryRows, error) {
	res, err := q.cluster.Query(statement, opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type airlineRepository struct {
	cluster airlineQuerier
	bucket  string
}

// NewAirlineRepository queries the inventory.airline collection of bucket.
func NewAirlineRepository(cluster *gocb.Cluster, bucket string) *airlineRepository {
	return &airlineRepository{cluster: clusterQuerier{cluster: cluster}, bucket: bucket}
}

func (r *airlineRepository) FindByName(ctx context.Context, name string) (*domain.AirlineDetail, error) {
	q := fmt.Sprintf(`
		SELECT a.callsign, a.name, a.country
		FROM %s.inventory.airline a
		WHERE a.name = $name
		LIMIT 1
	`, r.keyspace())

	rows, err := r.cluster.Query(q, &gocb.QueryOptions{
		NamedParameters: map[string]any{"name": name},
		Context:         ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("querying airline %q: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading airline rows: %w", err)
		}
		return nil, domain.ErrNotFound
	}

	var airline domain.AirlineDetail
	if err := rows.Row(&airline); err != nil {
		return nil, fmt.Errorf("decoding airline row: %w", err)
	}
	return &airline, nil
}

// UpdateCallsign reports whether an airline named name was found and updated.
func (r *airlineRepository) UpdateCallsign(ctx context.Context, name, callsign string) (bool, error) {
	q := fmt.Sprintf(`
		UPDATE %s.inventory.airline
		SET callsign = $callsign
		WHERE name = $name
		RETURNING name
	`, r.keyspace())

	rows, err := r.cluster.Query(q, &gocb.QueryOptions{
		NamedParameters: map[string]any{"name": name, "callsign": callsign},
		Context:         ctx,
	})
	if err != nil {
		return false, fmt.Errorf("updating airline %q: %w", name, err)
	}
	defer rows.Close()

	updated := 0
	for rows.Next() {
		updated++
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("reading update result: %w", err)
	}
	return updated > 0, nil
}

func (r *airlineRepository) keyspace() string {
	return "`" + r.bucket + "`"
}
