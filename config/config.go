package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/onoyima/project-exeat-sub001/internal/workflow"
)

// Config is the portal's full configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Countdown CountdownConfig `mapstructure:"countdown"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings for the drafts store.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	LogLevel        string `mapstructure:"log_level"`          // silent | error | warn | info
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig BFF session settings.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // attempts per minute per IP
}

// UpstreamConfig is the remote exeat API.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkflowConfig holds the deployment-specific parts of the role-gate table.
type WorkflowConfig struct {
	FirstGateRoles    []string `mapstructure:"first_gate_roles"`
	ConsentProxyRoles []string `mapstructure:"consent_proxy_roles"`
	FinalGate         string   `mapstructure:"final_gate"` // hostel | security
	Timezone          string   `mapstructure:"timezone"`   // deadlines are end of day here
}

// GateConfig converts the workflow section into a workflow.GateConfig.
func (c *WorkflowConfig) GateConfig() (workflow.GateConfig, error) {
	first, err := parseRoles("workflow.first_gate_roles", c.FirstGateRoles)
	if err != nil {
		return workflow.GateConfig{}, err
	}
	proxies, err := parseRoles("workflow.consent_proxy_roles", c.ConsentProxyRoles)
	if err != nil {
		return workflow.GateConfig{}, err
	}
	gate, ok := workflow.ParseFinalGate(c.FinalGate)
	if !ok {
		return workflow.GateConfig{}, fmt.Errorf("workflow.final_gate must be hostel or security, got %q", c.FinalGate)
	}
	return workflow.GateConfig{FirstGateRoles: first, ConsentProxyRoles: proxies, FinalGate: gate}, nil
}

// Location returns the deadline time zone, or UTC if unset.
func (c *WorkflowConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func parseRoles(key string, names []string) ([]workflow.Role, error) {
	out := make([]workflow.Role, 0, len(names))
	for _, n := range names {
		r, ok := workflow.ParseRole(n)
		if !ok {
			return nil, fmt.Errorf("%s: unknown role %q", key, n)
		}
		out = append(out, r)
	}
	return out, nil
}

// CountdownConfig tick intervals of the countdown stream.
type CountdownConfig struct {
	MultiDayTick time.Duration `mapstructure:"multi_day_tick"`
	PreciseTick  time.Duration `mapstructure:"precise_tick"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from a .env file, a config file and the
// environment. Precedence: env > config file > defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()

	// ── Defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "exeat_portal")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Africa/Lagos")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("auth.session_ttl", "8h")
	v.SetDefault("auth.login_rate_limit", 10)

	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.timeout", "15s")

	v.SetDefault("workflow.first_gate_roles", []string{"dean", "deputy_dean"})
	v.SetDefault("workflow.consent_proxy_roles", []string{"deputy_dean", "dean", "admin"})
	v.SetDefault("workflow.final_gate", "hostel")
	v.SetDefault("workflow.timezone", "Africa/Lagos")

	v.SetDefault("countdown.multi_day_tick", "1m")
	v.SetDefault("countdown.precise_tick", "1s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── Config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── Environment ──
	v.SetEnvPrefix("EXEAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the portal cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return fmt.Errorf("invalid config: upstream.base_url must not be empty")
	}
	if _, err := c.Workflow.GateConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Workflow.Location(); err != nil {
		return fmt.Errorf("invalid config: workflow.timezone: %w", err)
	}
	return nil
}
