// Package config collects the thin ambient configuration surface the demo
// binaries need: host/service/deadline/min-keysize/state-dir. The binding
// and advertisement packages themselves take no configuration beyond their
// function arguments, since there is no shared mutable state between
// operations — config exists only for the command-line layer above them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

// Config is the configuration a bind operation needs from its caller.
type Config struct {
	// Host is the Tang server's hostname or IP literal.
	Host string

	// Service is the UDP service name or port the server listens on.
	Service string

	// Deadline bounds the total wall time a bind operation's messenger
	// exchanges may take.
	Deadline time.Duration

	// MinKeySize is the minimum recovery key strength, in bytes of
	// symmetric-equivalent security, the client will accept. It is
	// compared against each candidate curve's degree via
	// pkg/recovery.SelectKey, which requires degree >= 16*MinKeySize
	// bits.
	MinKeySize int

	// StateDir is the directory bind records are persisted under.
	StateDir string

	// Listen indicates the caller will wait for an unsolicited recovery
	// reply rather than poll for one, mirroring bindstate.Record.Listen.
	Listen bool

	// ProtocolLogFile is an optional path to append CBOR-encoded
	// protocol events to, via pkg/log.
	ProtocolLogFile string

	// Discover enables mDNS discovery of a Tang server on the local
	// network instead of using Host/Service directly.
	Discover bool
}

// DefaultDeadline is used when a caller leaves Deadline unset.
const DefaultDeadline = 2 * time.Second

// DefaultMinKeySize is used when a caller leaves MinKeySize unset: 32
// bytes, the volume key size of an AES-256 LUKS2 binding.
const DefaultMinKeySize = 32

// Validate checks that cfg carries enough information to perform a bind,
// filling in defaults for fields left at their zero value.
func (cfg *Config) Validate() error {
	if !cfg.Discover && cfg.Host == "" {
		return errors.New("config: host is required unless discovery is enabled")
	}
	if !cfg.Discover && cfg.Service == "" {
		return errors.New("config: service is required unless discovery is enabled")
	}
	if cfg.StateDir == "" {
		return errors.New("config: state-dir is required")
	}
	if cfg.Deadline <= 0 {
		cfg.Deadline = DefaultDeadline
	}
	if cfg.MinKeySize <= 0 {
		cfg.MinKeySize = DefaultMinKeySize
	}
	return nil
}

// RegisterFlags binds cfg's fields to fs, one flat flag.FlagSet per
// command (no cobra/viper layering).
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Host, "host", "", "Tang server hostname or address")
	fs.StringVar(&cfg.Service, "service", "", "Tang server UDP service name or port")
	fs.DurationVar(&cfg.Deadline, "deadline", DefaultDeadline, "total wall time budget for the exchange")
	fs.IntVar(&cfg.MinKeySize, "min-keysize", DefaultMinKeySize, "minimum acceptable recovery key strength, in bytes")
	fs.StringVar(&cfg.StateDir, "state-dir", "", "directory to persist the bind record under")
	fs.BoolVar(&cfg.Listen, "listen", false, "wait for an unsolicited recovery reply instead of polling")
	fs.StringVar(&cfg.ProtocolLogFile, "protocol-log", "", "file path for protocol event logging (CBOR format)")
	fs.BoolVar(&cfg.Discover, "discover", false, "discover a Tang server via mDNS instead of -host/-service")
}

// String renders cfg for diagnostic logging.
func (cfg Config) String() string {
	return fmt.Sprintf("host=%s service=%s deadline=%s min-keysize=%d state-dir=%s discover=%t",
		cfg.Host, cfg.Service, cfg.Deadline, cfg.MinKeySize, cfg.StateDir, cfg.Discover)
}
