// Package tripclient is the HTTP client for the vanlog ledger API.
//
// It posts trips, lists the trip history, checks server health and follows
// the live feed of newly logged trips:
//
//	client := tripclient.NewClient("http://localhost:8080")
//
//	receipt, err := client.LogTrip(ctx, trip.Request{UserName: "Alex", StartKM: 12345, EndKM: 12399})
//	switch {
//	case tripclient.IsAPIError(err):
//	    // the server rejected the trip; err carries its message
//	case err != nil:
//	    // transport failure: unreachable, timeout, unparsable response
//	default:
//	    fmt.Printf("%.1f km, CHF %.2f\n", receipt.Distance(), receipt.Cost())
//	}
//
// # Error Handling
//
// Two error families are returned:
//   - *APIError: the server answered with a non-2xx status and a JSON body.
//     Message holds the server's "error" field, possibly empty.
//   - *ClientError: the exchange did not complete (network, timeout, refused
//     connection, DNS) or the body could not be parsed.
//
// LogTrip never retries. Every failure is returned to the caller as-is.
package tripclient
