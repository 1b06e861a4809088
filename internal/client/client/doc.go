// Package client is the CLI's connection to the visitkeeper server.
//
// GRPCClient manages one connection, attaches the current access token to
// every call through a unary interceptor, bounds each call with a timeout
// and maps gRPC status codes to the sentinel errors in errors.go so callers
// can use errors.Is.
package client
