// Package streamrpc implements §6's Stream-RPC surface: a
// newline-delimited JSON-RPC-like protocol over an io.Reader/io.Writer
// pair (os.Stdin/os.Stdout in production), implementing the two required
// methods, tools/list and tools/call. Grounded on the JSON-RPC-over-stdio
// idiom used by the retrieved MCP bridge example (scan one line, decode
// one request, encode and write one response, repeat).
package streamrpc
