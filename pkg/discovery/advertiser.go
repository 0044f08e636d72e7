package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface restricts advertising to a single network interface.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Zero uses the zeroconf default.
	TTL time.Duration
}

// Advertiser publishes a Tang server's presence on the local network.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates an Advertiser with the given configuration.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	return &Advertiser{config: config}
}

// Advertise registers instanceName as a Tang server reachable at port for
// mDNS purposes, advertising service (the messenger service string/port
// clients should dial) and minKeySize (0 if the server imposes none) in the
// TXT record. A previous advertisement from this Advertiser, if any, is torn
// down first.
func (a *Advertiser) Advertise(instanceName string, port int, service string, minKeySize int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	txt := txtRecordsToStrings(encodeTXT(service, minKeySize))

	var ifaces []net.Interface
	if a.config.Interface != "" {
		iface, err := net.InterfaceByName(a.config.Interface)
		if err != nil {
			return fmt.Errorf("discovery: resolving interface %q: %w", a.config.Interface, err)
		}
		ifaces = []net.Interface{*iface}
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(instanceName, ServiceType, Domain, port, txt, ifaces, opts...)
	if err != nil {
		return fmt.Errorf("discovery: registering %q: %w", instanceName, err)
	}

	a.server = server
	return nil
}

// Stop withdraws the advertisement, if any.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
