package messenger

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/tang-go/tang/pkg/tangerr"
)

// resolveRetries bounds the number of attempts made against a transient
// resolution failure before giving up.
const resolveRetries = 3

const resolveRetryDelay = 10 * time.Millisecond

// resolveAddrs is replaced in tests to avoid depending on the system
// resolver or real network interfaces.
var resolveAddrs = resolve

// resolve turns (host, service) into the ordered list of UDP addresses
// a request will be raced across. service may be a numeric port or a
// service name known to the resolver.
func resolve(ctx context.Context, host, service string) ([]*net.UDPAddr, error) {
	port, err := resolvePort(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving service %q: %v", tangerr.ErrTransport, service, err)
	}

	var ips []net.IPAddr
	var lastErr error
	for attempt := 1; attempt <= resolveRetries; attempt++ {
		ips, lastErr = net.DefaultResolver.LookupIPAddr(ctx, host)
		if lastErr == nil && len(ips) > 0 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: resolving host %q: %v", tangerr.ErrTransport, host, ctx.Err())
		case <-time.After(resolveRetryDelay):
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: resolving host %q: %v", tangerr.ErrTransport, host, lastErr)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: host %q resolved to no addresses", tangerr.ErrTransport, host)
	}

	addrs := make([]*net.UDPAddr, len(ips))
	for i, ip := range ips {
		addrs[i] = &net.UDPAddr{IP: ip.IP, Port: port, Zone: ip.Zone}
	}
	return addrs, nil
}

func resolvePort(ctx context.Context, service string) (int, error) {
	if port, err := net.DefaultResolver.LookupPort(ctx, "udp", service); err == nil {
		return port, nil
	}
	return 0, fmt.Errorf("unknown service %q", service)
}
