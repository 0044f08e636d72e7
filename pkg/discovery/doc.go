// Package discovery implements optional LAN discovery of Tang servers via
// mDNS/DNS-SD, using the service type "_tang._udp" in the "local." domain.
//
// This sits outside the DNS-based server discovery that is the normal
// path (a caller already knows host and service): it exists for
// deployments that publish their Tang endpoints on the local network instead
// of, or in addition to, DNS. Advertising and browsing are both best-effort;
// neither validates advertisement bodies or signatures. A server found this
// way is just a (host, service, min key size) tuple fed into pkg/messenger
// and pkg/advertisement exactly like one obtained any other way — discovery
// never bypasses signature verification.
//
// # TXT records
//
// Each advertised instance carries up to two TXT keys:
//
//	svc=<service>   the UDP service name/port the server listens on
//	mks=<min key size>   advertised minimum acceptable key size, decimal
//
// svc is required; mks is optional and is left out when the server states
// no minimum (a missing mks reads back as zero). An entry missing svc, or
// carrying an unparsable mks value, is skipped silently by browsers rather
// than surfaced as an error,
// since a malformed peer on the LAN should not abort discovery of every
// other peer.
package discovery
