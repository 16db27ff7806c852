// Package redisserver provides the Redis protocol compatible server for kiwi.
//
// Each accepted connection runs its own loop: accumulate bytes, decode one
// frame with pkg/resp, translate it into a Command, run the handler against
// the key/value service, then encode and write the reply. Decoding
// distinguishes an incomplete frame (read more) from malformed input
// (reply with an error and drop the buffered bytes).
//
// The server can listen on plain TCP, TLS and a Unix domain socket at once.
//
// Supported commands:
//   - GET key
//   - SET key value [EX seconds | PX milliseconds]
//   - DEL key [key ...]
//   - PING [message]
//   - ECHO [message]
//   - QUIT
package redisserver
