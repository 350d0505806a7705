// Package host provides a net/http implementation of [fetch.Transport].
//
// A [Host] turns transport options into an *http.Request, applies the
// request's redirect mode, buffers the response body and hands back a
// [fetch.NativeResponse] whose delegates read from the buffered bytes:
//
//	h, err := host.Build(host.WithTimeout(10 * time.Second))
//	if err != nil {
//		return err
//	}
//	c, err := client.Build(h)
//
// Failures to reach the server wrap [fetch.ErrNetwork], which the client
// turns into an error response.
package host
