package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchbase/gocb/v2"

	"github.com/dskvich/ollama-webui/pkg/config"
)

const bucketReadyTimeout = 5 * time.Second

// NewCouchbase connects to the cluster and waits until the configured bucket
// is ready. The WAN development profile relaxes timeouts for hosted clusters.
func NewCouchbase(cfg config.Couchbase) (*gocb.Cluster, error) {
	if cfg.URL == "" {
		return nil, errors.New("couchbase cluster url is empty")
	}

	opts := gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
	}
	if err := opts.ApplyProfile(gocb.ClusterConfigProfileWanDevelopment); err != nil {
		return nil, fmt.Errorf("applying couchbase profile: %w", err)
	}

	cluster, err := gocb.Connect(cfg.URL, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to couchbase: %w", err)
	}

	if err := cluster.Bucket(cfg.Bucket).WaitUntilReady(bucketReadyTimeout, nil); err != nil {
		_ = cluster.Close(nil)
		return nil, fmt.Errorf("waiting for bucket %q: %w", cfg.Bucket, err)
	}

	return cluster, nil
}
