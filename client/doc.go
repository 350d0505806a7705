// Package client provides the fetch entry point: a [Client] that merges
// a URL or [fetch.Request] with call-time options, encodes the body,
// calls the injected [fetch.Transport] and wraps the result.
//
// # Building a Client
//
// Use [Build] with a transport and functional options:
//
//	c, err := client.Build(transport,
//		client.WithUserAgent("myapp/1.0"),
//		client.WithThrottle(10, 5),
//	)
//
// # Fetching
//
//	resp, err := c.Fetch(ctx, "https://api.example.com/v1/items", &fetch.RequestInit{
//		Method: http.MethodPost,
//		Body:   fetch.JSONBody(item),
//	})
//	if err != nil { ... }      // misuse or a non-network transport failure
//	if resp.Type() == "error" { ... } // network failure
//	var out Item
//	err = resp.Decode(ctx, &out)
//
// # Configuration
//
// A [Config] document can be loaded with [LoadConfig] and applied with
// [WithConfig]; it is validated against its struct tags.
//
// For lower-level control see the
// [github.com/adamwoolhether/fetchio/fetch] package.
package client
