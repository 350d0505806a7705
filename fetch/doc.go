// Package fetch models the Fetch data types in plain Go: [Headers],
// [Request], [Response], [FormData] and the outgoing body codec.
//
// None of these types perform I/O. A [Transport] supplied by the host
// does the network work; the client package ties the two together.
//
// # Headers
//
// Names are case-insensitive and appended values merge with ", ":
//
//	h := fetch.NewHeaders()
//	h.Append("Accept", "application/json")
//	h.Append("accept", "text/html")
//	v, _ := h.Get("ACCEPT") // "application/json, text/html"
//
// # Bodies
//
// A [Body] is a closed variant. Use [TextBody], [BytesBody], [FormBody],
// [JSONBody], or classify a dynamic value once with [BodyOf]. [Encode]
// turns a body into the [Payload] a transport receives; JSON values set
// Content-Type: application/json unless a content type is already present.
//
// # Responses
//
// A response body is read once. Text, JSON, ArrayBuffer, Blob and Decode
// each consume it; later reads and [Response.Clone] fail with
// [ErrBodyUsed] or [ErrCloneUsed]. Clone before reading to read twice.
package fetch
