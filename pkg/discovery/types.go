package discovery

import "errors"

const (
	// ServiceType is the mDNS/DNS-SD service type Tang servers advertise
	// themselves under.
	ServiceType = "_tang._udp"

	// Domain is the mDNS browsing domain used for discovery.
	Domain = "local."

	txtKeyService    = "svc"
	txtKeyMinKeySize = "mks"
)

var (
	// ErrMissingRequired is returned when a required TXT key is absent.
	ErrMissingRequired = errors.New("discovery: missing required TXT record")

	// ErrInvalidTXTRecord is returned when a TXT record value cannot be
	// parsed.
	ErrInvalidTXTRecord = errors.New("discovery: invalid TXT record")
)

// ServerInfo describes a Tang server advertised on the local network.
type ServerInfo struct {
	// InstanceName is the mDNS instance name the server registered under.
	InstanceName string

	// Host is the resolved hostname of the advertising server.
	Host string

	// Addresses are the IPv4/IPv6 addresses the server was reached at.
	Addresses []string

	// Port is the UDP port the mDNS record advertises.
	Port uint16

	// Service is the UDP service name or port a messenger.Exchange call
	// should use when addressing this server, independent of the mDNS
	// record's own Port (a server may advertise one port for mDNS replies
	// and name a different service string for the protocol itself).
	Service string

	// MinKeySize is the minimum recovery key strength, in bytes, the
	// server advertised it is willing to serve; see config.Config.MinKeySize
	// for how this is compared against a curve's degree. Zero means the
	// server did not state one.
	MinKeySize int
}

// Validate reports whether info carries the fields a caller needs to
// address the server.
func (info *ServerInfo) Validate() error {
	if info.Host == "" && len(info.Addresses) == 0 {
		return errors.New("discovery: server info carries no address")
	}
	if info.Service == "" {
		return errors.New("discovery: server info carries no service")
	}
	return nil
}
