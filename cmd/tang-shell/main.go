// Command tang-shell is an interactive debug shell for poking at a Tang
// server during development: fetch an advertisement, inspect its keys,
// run a bind, and browse for servers on the LAN, without re-running a
// one-shot binary for every step.
//
// Usage:
//
//	tang-shell [-host host] [-service service]
package main

import (
	"context"
	"encoding/asn1"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tang-go/tang/internal/config"
	"github.com/tang-go/tang/pkg/advertisement"
	"github.com/tang-go/tang/pkg/discovery"
	"github.com/tang-go/tang/pkg/log"
	"github.com/tang-go/tang/pkg/messenger"
	"github.com/tang-go/tang/pkg/recovery"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

// shell holds the mutable state a debug session accumulates across
// commands: the target server and the most recently fetched
// advertisement, so later commands (bind, keys) don't need to re-fetch.
type shell struct {
	host    string
	service string

	m        *messenger.Messenger
	lastReply *wire.Reply
}

func main() {
	host := ""
	service := ""
	flag.StringVar(&host, "host", "", "Tang server hostname or address")
	flag.StringVar(&service, "service", "", "Tang server UDP service name or port")
	flag.Parse()

	rl, err := readline.New("tang> ")
	if err != nil {
		stdlog.Fatalf("tang-shell: %v", err)
	}
	defer rl.Close()

	sh := &shell{host: host, service: service, m: messenger.New(messenger.Config{Logger: log.NoopLogger{}})}
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return
		}
		if err != nil {
			stdlog.Printf("tang-shell: %v", err)
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "help", "?":
			sh.printHelp()
		case "target":
			sh.cmdTarget(args)
		case "adv":
			sh.cmdAdv(args)
		case "keys":
			sh.cmdKeys()
		case "bind":
			sh.cmdBind(args)
		case "discover":
			sh.cmdDiscover(args)
		case "quit", "exit", "q":
			return
		default:
			fmt.Printf("unknown command %q; type help\n", cmd)
		}
	}
}

func (sh *shell) printHelp() {
	fmt.Println(`commands:
  target <host> <service>   set the server to talk to
  adv                       fetch and verify an advertisement
  keys                      list keys from the last fetched advertisement
  bind [mks]                fetch, verify, and build a recovery request (default 32 bytes)
  discover [seconds]        browse the LAN for Tang servers (default 3s)
  quit                      leave the shell`)
}

func (sh *shell) cmdTarget(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: target <host> <service>")
		return
	}
	sh.host, sh.service = args[0], args[1]
	fmt.Printf("target set to %s:%s\n", sh.host, sh.service)
}

func acceptedGroups() []asn1.ObjectIdentifier {
	return []asn1.ObjectIdentifier{tangkey.OIDP521, tangkey.OIDP384, tangkey.OIDP256, tangkey.OIDP224}
}

func acceptedAlgorithms() []asn1.ObjectIdentifier {
	oids := make([]asn1.ObjectIdentifier, 0, len(advertisement.SupportedAlgorithms))
	for _, alg := range advertisement.SupportedAlgorithms {
		oids = append(oids, alg.OID())
	}
	return oids
}

func (sh *shell) cmdAdv(args []string) {
	if sh.host == "" || sh.service == "" {
		fmt.Println("no target set; use: target <host> <service>")
		return
	}

	advReq := &wire.AdvRequest{
		Kind:       wire.AdvRequestGrps,
		Groups:     acceptedGroups(),
		Algorithms: acceptedAlgorithms(),
	}

	deadline := time.Now().Add(3 * time.Second)
	replies, err := sh.m.Exchange(context.Background(), sh.host, sh.service, []*wire.Message{{AdvRequest: advReq}}, deadline)
	if err != nil {
		fmt.Printf("exchange failed: %v\n", err)
		return
	}
	if replies[0].Error != nil && replies[0].Error.Code.IsError() {
		fmt.Printf("server returned error %s\n", replies[0].Error.Code)
		return
	}
	if replies[0].AdvReply == nil {
		fmt.Println("server did not return an advertisement")
		return
	}

	if err := advertisement.Verify(replies[0].AdvReply); err != nil {
		fmt.Printf("signature verification failed: %v\n", err)
		return
	}

	sh.lastReply = replies[0].AdvReply
	fmt.Printf("fetched and verified advertisement with %d keys and %d signatures\n",
		len(sh.lastReply.Body.Keys), len(sh.lastReply.Signatures))
}

func (sh *shell) cmdKeys() {
	if sh.lastReply == nil {
		fmt.Println("no advertisement fetched yet; use: adv")
		return
	}
	for i, k := range sh.lastReply.Body.Keys {
		curve, err := tangkey.CurveByOID(k.Curve)
		degree := 0
		if err == nil {
			degree = tangkey.Degree(curve)
		}
		fmt.Printf("  [%d] use=%s curve=%s degree=%d\n", i, k.Use, k.Curve.String(), degree)
	}
}

func (sh *shell) cmdBind(args []string) {
	minKeySize := config.DefaultMinKeySize
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			minKeySize = n
		}
	}

	sh.cmdAdv(nil)
	if sh.lastReply == nil {
		return
	}

	result, err := recovery.Build(sh.lastReply, minKeySize)
	if err != nil {
		fmt.Printf("building recovery request failed: %v\n", err)
		return
	}
	defer result.Secret.Release()

	fmt.Printf("bind OK: derived %d bytes of secret key material\n", result.Secret.Size())
}

func (sh *shell) cmdDiscover(args []string) {
	wait := 3 * time.Second
	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			wait = time.Duration(n) * time.Second
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	found, err := discovery.Browse(ctx)
	if err != nil {
		fmt.Printf("browse failed: %v\n", err)
		return
	}

	count := 0
	for srv := range found {
		count++
		fmt.Printf("  %s at %s:%d service=%s mks=%d\n", srv.InstanceName, srv.Host, srv.Port, srv.Service, srv.MinKeySize)
	}
	if count == 0 {
		fmt.Println("no servers found")
	}
}
