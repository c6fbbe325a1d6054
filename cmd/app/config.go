package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Kubernetes configuration
	Kubernetes KubernetesConfig `mapstructure:"kubernetes"`

	// Cluster configuration
	Cluster ClusterConfig `mapstructure:"cluster"`

	// Watch configuration
	Watch WatchConfig `mapstructure:"watch"`

	// Airflow sink configuration
	Airflow AirflowConfig `mapstructure:"airflow"`

	// GitHub repository_dispatch sink configuration
	GHA GHAConfig `mapstructure:"gha"`

	// Log configuration
	Log LogConfig `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `mapstructure:"port"`

	// ShutdownTimeout is the timeout for server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// KubernetesConfig holds Kubernetes client configuration
type KubernetesConfig struct {
	// ConfigPath is the path to the kubeconfig file
	ConfigPath string `mapstructure:"config_path"`

	// MasterURL is the Kubernetes API server URL
	MasterURL string `mapstructure:"master_url"`
}

// ClusterConfig identifies the cluster being watched
type ClusterConfig struct {
	// Name is attached to every observability record and payload
	Name string `mapstructure:"name"`
}

// WatchConfig holds watch loop and debounce configuration
type WatchConfig struct {
	// DebounceSeconds is the coalescing window for node transitions
	DebounceSeconds int `mapstructure:"debounce_seconds"`

	// TimeoutSeconds is the server-side timeout of a single watch connection
	TimeoutSeconds int64 `mapstructure:"timeout_seconds"`

	// ReconnectDelay is the pause after a failed watch stream
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// AirflowConfig holds the DAG-trigger sink configuration.
// The sink is disabled unless BaseURL, Username and Password are all set.
type AirflowConfig struct {
	// BaseURL is the Airflow API base URL, without trailing slash
	BaseURL string `mapstructure:"base_url"`

	// DAGID is the DAG triggered per flush
	DAGID string `mapstructure:"dag_id"`

	// Username and Password are the basic auth credentials
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// MaxRetries is the total number of trigger attempts
	MaxRetries int `mapstructure:"max_retries"`
}

// GHAConfig holds the repository_dispatch sink configuration.
// The sink is disabled unless DispatchURL and Token are both set.
type GHAConfig struct {
	// DispatchURL is the full repository dispatches URL
	DispatchURL string `mapstructure:"dispatch_url"`

	// Token is the API token sent as "Authorization: token ..."
	Token string `mapstructure:"token"`

	// EventType is the repository_dispatch event type tag
	EventType string `mapstructure:"event_type"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the log level
	Level string `mapstructure:"level"`
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths and file types
	configureViper(v)

	// Read configs file
	if err := readConfigs(v); err != nil {
		return nil, err
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configs: %w", err)
	}

	config.Airflow.BaseURL = strings.TrimRight(config.Airflow.BaseURL, "/")
	config.GHA.DispatchURL = strings.TrimSpace(config.GHA.DispatchURL)
	config.GHA.Token = strings.TrimSpace(config.GHA.Token)

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configureViper sets up Viper configuration paths and types
func configureViper(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/node-health-watcher/")

	// Environment variables override file values; the replacer keeps the
	// historical flat names (CLUSTER_NAME, AIRFLOW_BASE_URL, ...) working.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// readConfigs attempts to read the configuration file
func readConfigs(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "configs file not found" error
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read configs file: %w", err)
		}
		// Otherwise, continue with defaults and environment variables
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if cfg.Cluster.Name == "" {
		return fmt.Errorf("cluster.name is required")
	}

	if cfg.Watch.DebounceSeconds <= 0 {
		return fmt.Errorf("watch.debounce_seconds must be positive")
	}
	if cfg.Watch.TimeoutSeconds <= 0 {
		return fmt.Errorf("watch.timeout_seconds must be positive")
	}
	if cfg.Watch.ReconnectDelay <= 0 {
		return fmt.Errorf("watch.reconnect_delay must be positive")
	}

	if cfg.Airflow.MaxRetries < 1 {
		return fmt.Errorf("airflow.max_retries must be at least 1")
	}
	if cfg.Airflow.TimeoutSeconds <= 0 {
		return fmt.Errorf("airflow.timeout_seconds must be positive")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Cluster defaults
	v.SetDefault("cluster.name", "pi-k3s")

	// Watch defaults
	v.SetDefault("watch.debounce_seconds", 5)
	v.SetDefault("watch.timeout_seconds", 30)
	v.SetDefault("watch.reconnect_delay", 2*time.Second)

	// Airflow sink defaults
	v.SetDefault("airflow.base_url", "")
	v.SetDefault("airflow.dag_id", "node_health_alert")
	v.SetDefault("airflow.username", "")
	v.SetDefault("airflow.password", "")
	v.SetDefault("airflow.timeout_seconds", 10)
	v.SetDefault("airflow.max_retries", 5)

	// GitHub dispatch sink defaults
	v.SetDefault("gha.dispatch_url", "")
	v.SetDefault("gha.token", "")
	v.SetDefault("gha.event_type", "k3s-node-alert")

	// Log defaults
	v.SetDefault("log.level", "info")
}
