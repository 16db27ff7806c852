// Package main provides the entry point for kiwi-server.
//
// The server runs a single-node, in-memory key/value store and serves it over:
//
//   - the Redis protocol (RESP2) on server.redis.addr, optionally TLS on server.redis.tls_addr
//     and a Unix domain socket on server.redis.unix_socket
//   - an HTTP/JSON facade with probes and Prometheus metrics on server.http.addr
//
// Usage:
//
//	kiwi-server [flags]
//	kiwi-server -config /path/to/config.yaml
//
// Every setting can be overridden with a KIWI_ environment variable, e.g.
// KIWI_SERVER_REDIS_ADDR=0.0.0.0:6379. Changing log.level in the config
// file takes effect without a restart, and so do replaced TLS certificates.
package main
