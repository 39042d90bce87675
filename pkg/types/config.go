package types

import "time"

// GraphBackend identifies the GraphStore implementation.
type GraphBackend string

const (
	// BackendBolt talks to a Bolt-protocol graph engine (Memgraph, Neo4j).
	BackendBolt GraphBackend = "bolt"

	// BackendSQLite uses the embedded SQLite property graph.
	BackendSQLite GraphBackend = "sqlite"
)

// GraphConfig holds the graph store connection settings.
type GraphConfig struct {
	// Backend selects the store: bolt or sqlite.
	Backend GraphBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// URI is the Bolt endpoint (e.g. "bolt://localhost:7687").
	URI string `json:"uri" yaml:"uri" mapstructure:"uri"`

	// Username and Password authenticate against the Bolt endpoint. Memgraph
	// accepts empty credentials.
	Username string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password string `json:"-" yaml:"password,omitempty" mapstructure:"password"`

	// Database is the Bolt database name; empty uses the server default.
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path" mapstructure:"sqlite_path"`

	// ConnectRetries is the number of additional reachability checks made at
	// startup before giving up (default 5).
	ConnectRetries int `json:"connect_retries" yaml:"connect_retries" mapstructure:"connect_retries"`

	// ConnectBackoff is the first delay between startup reachability checks;
	// it doubles after each failure (default 1s).
	ConnectBackoff time.Duration `json:"connect_backoff" yaml:"connect_backoff" mapstructure:"connect_backoff"`
}

// ServerConfig holds the REST server settings.
type ServerConfig struct {
	// Address is the listen address (e.g. ":8000").
	Address string `json:"address" yaml:"address" mapstructure:"address"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// Metrics exposes the prometheus handler on /metrics.
	Metrics bool `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// LogConfig selects the log format and level.
type LogConfig struct {
	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// ServiceConfig groups all configuration of the research index.
type ServiceConfig struct {
	Graph  GraphConfig  `json:"graph" yaml:"graph" mapstructure:"graph"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultServiceConfig returns the configuration used when no file, flag
// or environment variable overrides a value.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Graph: GraphConfig{
			Backend:        BackendBolt,
			URI:            "bolt://localhost:7687",
			SQLitePath:     "data/research-index.db",
			ConnectRetries: 5,
			ConnectBackoff: time.Second,
		},
		Server: ServerConfig{
			Address:         ":8000",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
}
