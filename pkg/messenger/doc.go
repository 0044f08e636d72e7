// Package messenger implements UDP request/response fan-out: resolving
// a (host, service) pair to a set of addresses, racing a request
// across all of them with bounded per-address retries, and returning
// the first reply that decodes successfully.
package messenger
