// Package command provides CLI command definitions for kiwi-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command opens at most
// one connection, created lazily by the connection manager stored in the
// app metadata.
package command
