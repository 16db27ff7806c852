// Package output renders server replies for kiwi-cli.
//
// Formats: table (default), json, yaml and raw. Raw prints bare values one
// per line, like redis-cli --raw, for use in scripts.
package output
