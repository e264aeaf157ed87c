package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMS  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMS int    `yaml:"write_timeout_ms"`
}

type Observability struct {
	LogLevel       string `yaml:"log_level"`       // "debug","info","warn","error"
	PrometheusPath string `yaml:"prometheus_path"` // e.g. "/metrics"
}

// Limit selects the bucket policy: either a compact rate string, or
// the three parameters spelled out when burst and sustained rate must
// differ. The explicit parameters win when Capacity is set.
type Limit struct {
	Rate                string  `yaml:"rate"` // e.g. "10/minute"
	Capacity            float64 `yaml:"capacity"`
	RefillRate          float64 `yaml:"refill_rate"`
	RefillPeriodSeconds float64 `yaml:"refill_period_seconds"`
}

type Redis struct {
	Addr             string `yaml:"addr"`
	Password         string `yaml:"password"`
	DB               int    `yaml:"db"`
	KeyPrefix        string `yaml:"key_prefix"`
	RecordTTLSeconds int    `yaml:"record_ttl_seconds"`
	TimeoutMS        int    `yaml:"timeout_ms"`
}

// Backend picks the storage variant explicitly at wiring time.
type Backend struct {
	Kind     string `yaml:"kind"` // "local" or "redis"
	FailOpen bool   `yaml:"fail_open"`
	Redis    Redis  `yaml:"redis"`
}

type Root struct {
	Server        Server        `yaml:"server"`
	Observability Observability `yaml:"observability"`
	Limit         Limit         `yaml:"limit"`
	Backend       Backend       `yaml:"backend"`
}

func (s Server) ReadTimeout() time.Duration {
	if s.ReadTimeoutMS == 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ReadTimeoutMS) * time.Millisecond
}

func (s Server) WriteTimeout() time.Duration {
	if s.WriteTimeoutMS == 0 {
		return 10 * time.Second
	}
	return time.Duration(s.WriteTimeoutMS) * time.Millisecond
}

func (r Redis) Timeout() time.Duration {
	if r.TimeoutMS == 0 {
		return 5 * time.Second
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

func (r Redis) RecordTTL() time.Duration {
	return time.Duration(r.RecordTTLSeconds) * time.Second
}

func (l Limit) RefillPeriod() time.Duration {
	return time.Duration(l.RefillPeriodSeconds * float64(time.Second))
}

// Default returns the configuration used when no file is supplied: a
// local backend limiting to 100 requests per minute.
func Default() Root {
	return Root{
		Server:        Server{Addr: ":8080"},
		Observability: Observability{LogLevel: "info", PrometheusPath: "/metrics"},
		Limit:         Limit{Rate: "100/minute"},
		Backend: Backend{
			Kind:  "local",
			Redis: Redis{Addr: "localhost:6379"},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Root, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Root{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Root{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Backend.Kind != "local" && cfg.Backend.Kind != "redis" {
		return Root{}, fmt.Errorf("unknown backend kind %q, use \"local\" or \"redis\"", cfg.Backend.Kind)
	}
	return cfg, nil
}
