package core

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/goccy/go-yaml"
)

// HashAlgorithm selects the name-hashing function used by the pipeline (C2).
type HashAlgorithm int

const (
	HashSimple HashAlgorithm = iota
	HashJenkins
	HashMurmur
	HashXXHash
)

// Config is the process-wide configuration struct, read on every packet and
// written only by the control plane (spec.md §3, §5). Every field named in
// spec.md's Configuration data model is present; the capacity fields come
// from spec.md §5's resource caps, which are configurable startup
// parameters even though the caps themselves are fixed invariants.
type Config struct {
	Core CoreConfig `yaml:"core"`

	HashAlgorithm              HashAlgorithm `yaml:"hash_algorithm"`
	CSEnabled                  bool          `yaml:"cs_enabled"`
	PITEnabled                 bool          `yaml:"pit_enabled"`
	MetricsEnabled             bool          `yaml:"metrics_enabled"`
	ZeroCopyEnabled            bool          `yaml:"zero_copy_enabled"`
	UserspaceFallbackThreshold int           `yaml:"userspace_fallback_threshold"`
	DefaultTTLSec              int64         `yaml:"default_ttl_sec"`
	CSMaxSizeBytes             int           `yaml:"cs_max_size_bytes"`

	CSCapacity    int `yaml:"cs_capacity"`
	PITCapacity   int `yaml:"pit_capacity"`
	NonceCapacity int `yaml:"nonce_capacity"`

	// EventRingBytes is the memory budget for the event ring in bytes
	// (spec.md §5: "256 KiB"), not a slot count — metrics.NewEventRingBytes
	// divides this by sizeof(metrics.Event) to get the actual slot count.
	EventRingBytes int `yaml:"event_ring_bytes"`

	PITLifetimeMS  int64 `yaml:"pit_lifetime_ms"`
	NonceWindowSec int64 `yaml:"nonce_window_sec"`

	Mgmt MgmtConfig `yaml:"mgmt"`
}

// CoreConfig holds process-level, non-hot-path settings: base directory,
// logging, and profiling flags, mirroring the teacher's core.Config.Core
// block consumed by fw/cmd/cmd.go and fw/cmd/profiler.go.
type CoreConfig struct {
	BaseDir      string `yaml:"-"`
	LogLevel     string `yaml:"log_level"`
	CPUProfile   string `yaml:"-"`
	MemProfile   string `yaml:"-"`
	BlockProfile string `yaml:"-"`
}

// MgmtConfig configures the control-plane listener surfaces (§6).
type MgmtConfig struct {
	HTTPBind string `yaml:"http_bind"`

	WSBind string `yaml:"ws_bind"`

	H3Bind    string `yaml:"h3_bind"`
	H3TLSCert string `yaml:"h3_tls_cert"`
	H3TLSKey  string `yaml:"h3_tls_key"`

	BadgerDir string `yaml:"badger_dir"`
	SqliteDSN string `yaml:"sqlite_dsn"`
}

// DefaultConfig returns a Config seeded with the resource caps and defaults
// from spec.md §5 ("Resource caps") and §4 (PIT lifetime, nonce window),
// mirroring core.DefaultConfig() in the teacher's fw/cmd/cmd.go.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			LogLevel: "INFO",
		},
		HashAlgorithm:              HashXXHash,
		CSEnabled:                  true,
		PITEnabled:                 true,
		MetricsEnabled:             true,
		ZeroCopyEnabled:            false,
		UserspaceFallbackThreshold: 0,
		DefaultTTLSec:              4,
		CSMaxSizeBytes:             8192,
		CSCapacity:                 32768,
		PITCapacity:                4096,
		NonceCapacity:              8192,
		EventRingBytes:             256 * 1024,
		PITLifetimeMS:              4000,
		NonceWindowSec:             1,
		Mgmt: MgmtConfig{
			HTTPBind: "127.0.0.1:9696",
			WSBind:   "127.0.0.1:9697",
		},
	}
}

// ReadYaml reads the YAML file at path into cfg, mirroring the teacher's
// std/utils/toolutils.ReadYaml helper used by fw/cmd/cmd.go.
func ReadYaml(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// liveConfig is the atomically-swapped single slot described in spec.md §5
// ("Config | pipeline | control plane | single slot; atomic swap semantics").
var liveConfig atomic.Pointer[Config]

func init() {
	liveConfig.Store(DefaultConfig())
}

// Live returns the currently active configuration. Safe to call from any
// pipeline worker without locking.
func Live() *Config {
	return liveConfig.Load()
}

// SetLive atomically swaps in a new configuration, the only way the control
// plane is allowed to mutate process-wide config (spec.md §5).
func SetLive(cfg *Config) {
	liveConfig.Store(cfg)
}
