// Package discovery finds vanlog ledger servers on the local network via mDNS.
//
// A server advertises itself as a "_vanlog._tcp" service in the "local."
// domain with Advertise. Clients browse for that service type with a Scanner
// and use Endpoint.BaseURL as the API URL.
//
// # Usage Example
//
//	endpoints, err := discovery.NewScanner().Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ep := range endpoints {
//	    fmt.Printf("Found: %s at %s\n", ep.Instance, ep.BaseURL())
//	}
//
// # TXT Records
//
//   - path: URL path prefix of the API ("/" when absent)
//   - version: server version
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Client and server must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
