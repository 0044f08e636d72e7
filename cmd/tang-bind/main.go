// Command tang-bind is a reference client for the bind half of the
// protocol: it fetches a server's advertisement, verifies it, selects a
// recovery key, performs the blinding exchange, and persists the
// resulting bind record. It demonstrates pkg/messenger, pkg/advertisement,
// pkg/recovery, and pkg/bindstate wired together the way a LUKS-integration
// layer would call them.
//
// Usage:
//
//	tang-bind [flags]
//
// Flags mirror internal/config.Config; see -help.
package main

import (
	"context"
	"encoding/asn1"
	stdlog "log"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tang-go/tang/internal/config"
	"github.com/tang-go/tang/pkg/advertisement"
	"github.com/tang-go/tang/pkg/bindstate"
	"github.com/tang-go/tang/pkg/discovery"
	tanglog "github.com/tang-go/tang/pkg/log"
	"github.com/tang-go/tang/pkg/messenger"
	"github.com/tang-go/tang/pkg/recovery"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

func main() {
	var cfg config.Config
	fs := flag.NewFlagSet("tang-bind", flag.ExitOnError)
	config.RegisterFlags(fs, &cfg)
	fs.Parse(os.Args[1:])

	if cfg.Discover {
		if err := discoverServer(&cfg); err != nil {
			stdlog.Fatalf("tang-bind: discovery: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("tang-bind: %v", err)
	}

	logger, closeLogger := openLogger(cfg.ProtocolLogFile)
	defer closeLogger()

	if err := bind(&cfg, logger); err != nil {
		stdlog.Fatalf("tang-bind: %v", err)
	}
}

func discoverServer(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	found, err := discovery.Browse(ctx)
	if err != nil {
		return err
	}

	select {
	case srv, ok := <-found:
		if !ok {
			return fmt.Errorf("no Tang server found on the local network")
		}
		host := srv.Host
		if host == "" && len(srv.Addresses) > 0 {
			host = srv.Addresses[0]
		}
		cfg.Host = host
		cfg.Service = srv.Service
		if srv.MinKeySize > 0 {
			cfg.MinKeySize = srv.MinKeySize
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for a Tang server advertisement")
	}
}

func openLogger(path string) (tanglog.Logger, func()) {
	if path == "" {
		return tanglog.NoopLogger{}, func() {}
	}
	fl, err := tanglog.NewFileLogger(path)
	if err != nil {
		stdlog.Printf("tang-bind: opening protocol log %s: %v, continuing without it", path, err)
		return tanglog.NoopLogger{}, func() {}
	}
	return fl, func() { fl.Close() }
}

// acceptedGroups lists every curve OID this client's recovery builder
// can handle, in descending strength order, for a GRPS-kind
// advertisement request.
func acceptedGroups() []asn1.ObjectIdentifier {
	return []asn1.ObjectIdentifier{
		tangkey.OIDP521,
		tangkey.OIDP384,
		tangkey.OIDP256,
		tangkey.OIDP224,
	}
}

// acceptedAlgorithms lists every signature algorithm this client can
// verify.
func acceptedAlgorithms() []asn1.ObjectIdentifier {
	oids := make([]asn1.ObjectIdentifier, 0, len(advertisement.SupportedAlgorithms))
	for _, alg := range advertisement.SupportedAlgorithms {
		oids = append(oids, alg.OID())
	}
	return oids
}

func bind(cfg *config.Config, logger tanglog.Logger) error {
	m := messenger.New(messenger.Config{Logger: logger})

	advReq := &wire.AdvRequest{
		Kind:       wire.AdvRequestGrps,
		Groups:     acceptedGroups(),
		Algorithms: acceptedAlgorithms(),
	}

	deadline := time.Now().Add(cfg.Deadline)
	replies, err := m.Exchange(context.Background(), cfg.Host, cfg.Service,
		[]*wire.Message{{AdvRequest: advReq}}, deadline)
	if err != nil {
		return fmt.Errorf("fetching advertisement: %w", err)
	}
	if replies[0].Error != nil && replies[0].Error.Code.IsError() {
		return fmt.Errorf("server returned error %s", replies[0].Error.Code)
	}
	advReply := replies[0].AdvReply
	if advReply == nil {
		return fmt.Errorf("server did not return an advertisement")
	}

	if err := advertisement.Verify(advReply); err != nil {
		return fmt.Errorf("verifying advertisement: %w", err)
	}

	result, err := recovery.Build(advReply, cfg.MinKeySize)
	if err != nil {
		return fmt.Errorf("building recovery request: %w", err)
	}
	defer result.Secret.Release()

	record := &bindstate.Record{
		RecoveryRequest: *result.Request,
		Host:            cfg.Host,
		Service:         cfg.Service,
		Listen:          cfg.Listen,
	}
	recordPath := filepath.Join(cfg.StateDir, "bind.der")
	store := bindstate.NewStore(recordPath)
	if err := store.Save(record); err != nil {
		return fmt.Errorf("persisting bind record: %w", err)
	}

	fmt.Printf("bind OK: derived %d bytes of secret key material, persisted to %s\n",
		result.Secret.Size(), recordPath)
	return nil
}
