// Command tangd is a reference Tang server mirror: it loads a YAML key
// database, answers advertisement requests via pkg/advertisement.Builder,
// and answers recovery requests by performing the server-side half of the
// blinding exchange. It exists to exercise the client core end-to-end during
// development; it is not a hardened server implementation.
//
// Usage:
//
//	tangd [flags]
//
// Flags:
//
//	-keydb string      Path to the YAML key database file
//	-listen string      UDP address to listen on (default ":5697")
//	-advertise          Advertise this server on the LAN via mDNS
//	-instance string    mDNS instance name when -advertise is set
package main

import (
	"context"
	"crypto/ecdsa"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/tang-go/tang/pkg/advertisement"
	"github.com/tang-go/tang/pkg/discovery"
	"github.com/tang-go/tang/pkg/ecconv"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

func main() {
	keydbPath := flag.String("keydb", "", "path to the YAML key database file")
	listenAddr := flag.String("listen", ":5697", "UDP address to listen on")
	advertiseFlag := flag.Bool("advertise", false, "advertise this server on the LAN via mDNS")
	instanceName := flag.String("instance", "tangd", "mDNS instance name when -advertise is set")
	flag.Parse()

	if *keydbPath == "" {
		fmt.Fprintln(os.Stderr, "tangd: -keydb is required")
		os.Exit(2)
	}

	records, err := loadKeyDB(*keydbPath)
	if err != nil {
		log.Fatalf("tangd: %v", err)
	}

	builder, err := advertisement.NewBuilder(records)
	if err != nil {
		log.Fatalf("tangd: building advertisement set: %v", err)
	}

	recKeys, err := recoveryKeyIndex(records)
	if err != nil {
		log.Fatalf("tangd: %v", err)
	}

	conn, err := net.ListenPacket("udp", *listenAddr)
	if err != nil {
		log.Fatalf("tangd: listening on %s: %v", *listenAddr, err)
	}
	defer conn.Close()
	log.Printf("tangd: listening on %s", conn.LocalAddr())

	var adv *discovery.Advertiser
	if *advertiseFlag {
		_, portStr, err := net.SplitHostPort(conn.LocalAddr().String())
		if err != nil {
			log.Fatalf("tangd: determining advertised port: %v", err)
		}
		var port int
		fmt.Sscanf(portStr, "%d", &port)

		adv = discovery.NewAdvertiser(discovery.AdvertiserConfig{})
		if err := adv.Advertise(*instanceName, port, portStr, 0); err != nil {
			log.Fatalf("tangd: advertising: %v", err)
		}
		defer adv.Stop()
		log.Printf("tangd: advertising as %q", *instanceName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve(ctx, conn, builder, recKeys)
}

// recKeyEntry pairs a REC-tagged wire key with the server's private
// scalar for it, so an incoming recovery request can be matched back to
// the key that generated it.
type recKeyEntry struct {
	key  tangkey.Key
	priv *ecdsa.PrivateKey
}

// recoveryKeyIndex builds the lookup table handleRecovery uses to match
// an incoming recovery request's echoed key back to the private scalar
// that can complete it.
func recoveryKeyIndex(records []advertisement.KeyRecord) ([]recKeyEntry, error) {
	var entries []recKeyEntry
	for _, kr := range records {
		if kr.Use != tangkey.UseRec {
			continue
		}
		k, err := ecconv.FromPublicKey(&kr.Private.PublicKey, tangkey.UseRec)
		if err != nil {
			return nil, fmt.Errorf("indexing recovery key: %w", err)
		}
		entries = append(entries, recKeyEntry{key: k, priv: kr.Private})
	}
	return entries, nil
}

func serve(ctx context.Context, conn net.PacketConn, builder *advertisement.Builder, recKeys []recKeyEntry) {
	buf := make([]byte, wire.MaxDatagramSize)
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		conn.Close()
		close(done)
	}()

	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-done:
				return
			default:
				log.Printf("tangd: read error: %v", err)
				continue
			}
		}

		reply := handleDatagram(buf[:n], builder, recKeys)
		if reply == nil {
			continue
		}
		if _, err := conn.WriteTo(reply, addr); err != nil {
			log.Printf("tangd: write to %s: %v", addr, err)
		}
	}
}

func handleDatagram(data []byte, builder *advertisement.Builder, recKeys []recKeyEntry) []byte {
	msg, err := wire.Unmarshal(data)
	if err != nil {
		out, _ := wire.EncodeError(wire.ErrInternal)
		return out
	}

	switch msg.Kind() {
	case wire.MsgKindAdvRequest:
		reply, err := builder.Build(msg.AdvRequest)
		if err != nil {
			out, _ := wire.EncodeError(wire.ErrNotFoundKey)
			return out
		}
		out, err := wire.EncodeAdvReply(reply)
		if err != nil {
			out, _ := wire.EncodeError(wire.ErrInternal)
			return out
		}
		return out

	case wire.MsgKindRecoveryReq:
		reply, err := handleRecovery(msg.RecoveryRequest, recKeys)
		if err != nil {
			out, _ := wire.EncodeError(wire.ErrNotFoundKey)
			return out
		}
		out, err := wire.EncodeRecoveryReply(reply)
		if err != nil {
			out, _ := wire.EncodeError(wire.ErrInternal)
			return out
		}
		return out

	default:
		out, _ := wire.EncodeError(wire.ErrInternal)
		return out
	}
}

func handleRecovery(req *wire.RecoveryRequest, recKeys []recKeyEntry) (*wire.RecoveryReply, error) {
	for _, rk := range recKeys {
		if !rk.key.Equal(req.Key) {
			continue
		}
		curve := rk.priv.Curve
		x, y, err := ecconv.OctetToPoint(curve, req.XPoint)
		if err != nil {
			return nil, err
		}
		yx, yy := curve.ScalarMult(x, y, rk.priv.D.Bytes())
		return &wire.RecoveryReply{YPoint: ecconv.PointToOctet(curve, yx, yy)}, nil
	}
	return nil, fmt.Errorf("tangd: no matching recovery key")
}
