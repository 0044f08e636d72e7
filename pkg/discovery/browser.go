package discovery

import (
	"context"

	"github.com/enbility/zeroconf/v3"
)

// Browse searches the local network for Tang servers and returns a channel
// of discovered servers. The channel is closed when ctx is done or when
// browsing fails outright; entries with malformed TXT records are skipped
// rather than surfaced as errors.
func Browse(ctx context.Context) (<-chan *ServerInfo, error) {
	out := make(chan *ServerInfo)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		for range removed {
		}
	}()

	go func() {
		defer close(out)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				info := entryToServerInfo(entry)
				if info == nil {
					continue
				}
				select {
				case out <- info:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed)
	}()

	return out, nil
}

func entryToServerInfo(entry *zeroconf.ServiceEntry) *ServerInfo {
	txt := stringsToTXTRecords(entry.Text)
	service, minKeySize, err := decodeTXT(txt)
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &ServerInfo{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Addresses:    addrs,
		Port:         uint16(entry.Port),
		Service:      service,
		MinKeySize:   minKeySize,
	}
}
