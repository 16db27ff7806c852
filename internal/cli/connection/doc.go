// Package connection provides the RESP client used by kiwi-cli.
//
//   - client.go: one TCP (optionally TLS) connection speaking RESP
//   - manager.go: lazy dial and reconnect after a broken connection
package connection
