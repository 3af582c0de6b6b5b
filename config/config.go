// Package config loads routesim settings.
//
// Values are layered: built-in defaults, then the YAML file, then ROUTESIM_*
// environment variables. The file is looked up in priority order:
//  1. the explicit path argument
//  2. $ROUTESIM_CONFIG
//  3. ./routesim.yaml
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "ROUTESIM_CONFIG"
	// ConfigFileName is the file looked up in the working directory.
	ConfigFileName = "routesim.yaml"
)

// Network kinds.
const (
	KindGrid = "grid"
	KindYAML = "yaml"
	KindOSM  = "osm"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the full routesim configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Seed     int64         `yaml:"seed"`
	Network  NetworkConfig `yaml:"network"`
	Route    RouteConfig   `yaml:"route"`
	PRM      PRMConfig     `yaml:"prm"`
	Render   RenderConfig  `yaml:"render"`
	Server   ServerConfig  `yaml:"server"`
}

// NetworkConfig selects and shapes the road network.
type NetworkConfig struct {
	Kind    string  `yaml:"kind"` // grid | yaml | osm
	Path    string  `yaml:"path"` // yaml and osm
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float64 `yaml:"spacing"` // meters
	OneWay  bool    `yaml:"one_way"`
	Jitter  float64 `yaml:"jitter"`
}

// LatLon is a WGS84 coordinate.
type LatLon struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// valid reports whether p is nil or a WGS84 coordinate.
func (p *LatLon) valid() bool {
	return p == nil || (p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180)
}

// RouteConfig names the trip endpoints, either as vertex IDs or as points
// snapped to the nearest vertex.
type RouteConfig struct {
	Source      string  `yaml:"source"`
	Target      string  `yaml:"target"`
	SourcePoint *LatLon `yaml:"source_point"`
	TargetPoint *LatLon `yaml:"target_point"`
}

// PRMConfig tunes the alternative route sampler.
type PRMConfig struct {
	K               int     `yaml:"k"`
	Threshold       float64 `yaml:"threshold"`
	Attempts        int     `yaml:"attempts"`
	RemovalFraction float64 `yaml:"removal_fraction"`
	Workers         int     `yaml:"workers"`
}

// RenderConfig controls GeoJSON output. An empty Dir disables rendering.
type RenderConfig struct {
	Dir     string `yaml:"dir"`
	Streets bool   `yaml:"streets"`
}

// ServerConfig configures `routesim serve`.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
}

// Default trip endpoints: Harlem to a downtown hospital.
var (
	DefaultSource = LatLon{Lat: 40.823479, Lon: -73.936095}
	DefaultTarget = LatLon{Lat: 40.710148, Lon: -74.004925}
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()

	return c
}

// Load finds and loads the config file, or returns defaults if none is found.
// Environment overrides are applied and the result is validated. The second
// return value is the file that was read, if any.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		cfg := &Config{}
		if err := cfg.finish(os.Getenv); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := decode(data)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.finish(os.Getenv); err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Parse decodes YAML, fills defaults and validates, ignoring the environment.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode rejects unknown keys. An empty document yields a zero Config.
func decode(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// FindConfigPath returns $ROUTESIM_CONFIG or ./routesim.yaml when they exist,
// or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) finish(getenv func(string) string) error {
	if err := c.ApplyEnv(getenv); err != nil {
		return err
	}
	c.applyDefaults()

	return c.Validate()
}

// applyDefaults fills in missing values.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Seed == 0 {
		c.Seed = 1
	}

	n := &c.Network
	if n.Kind == "" {
		n.Kind = KindGrid
	}
	if n.Kind == KindGrid {
		if n.Rows == 0 {
			n.Rows = 20
		}
		if n.Cols == 0 {
			n.Cols = 20
		}
	}
	if n.Spacing == 0 {
		n.Spacing = 100
	}

	r := &c.Route
	switch n.Kind {
	case KindGrid:
		if r.Source == "" && r.SourcePoint == nil {
			r.Source = "0,0"
		}
		if r.Target == "" && r.TargetPoint == nil {
			r.Target = fmt.Sprintf("%d,%d", n.Rows-1, n.Cols-1)
		}
	case KindOSM:
		if r.Source == "" && r.SourcePoint == nil {
			p := DefaultSource
			r.SourcePoint = &p
		}
		if r.Target == "" && r.TargetPoint == nil {
			p := DefaultTarget
			r.TargetPoint = &p
		}
	}

	p := &c.PRM
	if p.K == 0 {
		p.K = 3
	}
	if p.Threshold == 0 {
		p.Threshold = 0.3
	}
	if p.Attempts == 0 {
		p.Attempts = 10
	}
	if p.RemovalFraction == 0 {
		p.RemovalFraction = 0.15
	}
	if p.Workers == 0 {
		p.Workers = 1
	}

	s := &c.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.ReadHeaderTimeout == 0 {
		s.ReadHeaderTimeout = 5 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
}

// ApplyEnv overrides fields from ROUTESIM_* variables read through getenv.
//
//	ROUTESIM_LOG_LEVEL  ROUTESIM_SEED      ROUTESIM_NETWORK_KIND
//	ROUTESIM_NETWORK_PATH  ROUTESIM_SOURCE  ROUTESIM_TARGET
//	ROUTESIM_PRM_WORKERS  ROUTESIM_RENDER_DIR  ROUTESIM_ADDR
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"ROUTESIM_LOG_LEVEL":    &c.LogLevel,
		"ROUTESIM_NETWORK_KIND": &c.Network.Kind,
		"ROUTESIM_NETWORK_PATH": &c.Network.Path,
		"ROUTESIM_SOURCE":       &c.Route.Source,
		"ROUTESIM_TARGET":       &c.Route.Target,
		"ROUTESIM_RENDER_DIR":   &c.Render.Dir,
		"ROUTESIM_ADDR":         &c.Server.Addr,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("ROUTESIM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ROUTESIM_SEED=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Seed = seed
	}
	if v := getenv("ROUTESIM_PRM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ROUTESIM_PRM_WORKERS=%q: %v", ErrInvalidConfig, v, err)
		}
		c.PRM.Workers = n
	}

	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if _, err := c.Level(); err != nil {
		bad("log_level %q", c.LogLevel)
	}

	n := c.Network
	switch n.Kind {
	case KindGrid:
		if n.Rows < 1 || n.Cols < 1 {
			bad("network grid %dx%d", n.Rows, n.Cols)
		}
	case KindYAML, KindOSM:
		if n.Path == "" {
			bad("network.path required for kind %q", n.Kind)
		}
	default:
		bad("network.kind %q", n.Kind)
	}
	if !(n.Spacing > 0) {
		bad("network.spacing %v", n.Spacing)
	}
	if n.Jitter < 0 || n.Jitter >= 1 {
		bad("network.jitter %v not in [0,1)", n.Jitter)
	}

	r := c.Route
	if r.Source == "" && r.SourcePoint == nil {
		bad("route.source or route.source_point required")
	}
	if r.Target == "" && r.TargetPoint == nil {
		bad("route.target or route.target_point required")
	}
	if !r.SourcePoint.valid() {
		bad("route.source_point %v out of range", *r.SourcePoint)
	}
	if !r.TargetPoint.valid() {
		bad("route.target_point %v out of range", *r.TargetPoint)
	}

	p := c.PRM
	if p.K < 1 {
		bad("prm.k %d", p.K)
	}
	if p.Threshold < 0 || p.Threshold >= 1 {
		bad("prm.threshold %v not in [0,1)", p.Threshold)
	}
	if p.Attempts < 1 {
		bad("prm.attempts %d", p.Attempts)
	}
	if p.RemovalFraction < 0 || p.RemovalFraction > 1 {
		bad("prm.removal_fraction %v not in [0,1]", p.RemovalFraction)
	}
	if p.Workers < 1 {
		bad("prm.workers %d", p.Workers)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))

	return l, err
}
