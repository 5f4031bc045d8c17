// Package config holds the environment-backed settings shared by the web UI
// service and the example programs.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v9"
)

type Ollama struct {
	Host           string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	RequestTimeout time.Duration `env:"OLLAMA_REQUEST_TIMEOUT" envDefault:"60s"`
	Verbose        bool          `env:"OLLAMA_VERBOSE" envDefault:"false"`
	ChatModel      string        `env:"OLLAMA_CHAT_MODEL" envDefault:"llama3.2"`
	ToolsModel     string        `env:"OLLAMA_TOOLS_MODEL" envDefault:"mistral"`
	ImageModel     string        `env:"OLLAMA_IMAGE_MODEL" envDefault:"llava"`
	LibraryURL     string        `env:"OLLAMA_LIBRARY_URL" envDefault:"https://ollama.com/library"`
}

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// APITokens, when set, are the bearer tokens accepted by the /api routes.
	APITokens       []string      `env:"HTTP_API_TOKENS" envSeparator:" "`
}

type Postgres struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Database string `env:"DB_NAME" envDefault:"postgres"`
}

// Enabled reports whether any Postgres location was configured.
func (p Postgres) Enabled() bool {
	return p.URL != "" || p.Host != ""
}

// DSN returns DATABASE_URL when set, otherwise builds one from the host parts.
func (p Postgres) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host,
		Path:     "/" + p.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type Couchbase struct {
	URL      string `env:"CB_CLUSTER_URL"`
	Username string `env:"CB_CLUSTER_USERNAME"`
	Password string `env:"CB_CLUSTER_PASSWORD"`
	Bucket   string `env:"CB_BUCKET" envDefault:"travel-sample"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

const (
	HistoryStoreMemory = "memory"
	HistoryStoreRedis  = "redis"
)

type History struct {
	Store string        `env:"HISTORY_STORE" envDefault:"memory"`
	TTL   time.Duration `env:"HISTORY_TTL" envDefault:"1h"`
}

type Log struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool   `env:"LOG_NO_COLOR" envDefault:"false"`
}

// Parse fills cfg from the environment.
func Parse(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}
	return nil
}
