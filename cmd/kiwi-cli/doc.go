// Package main provides the entry point for kiwi-cli.
//
// The CLI talks to a kiwi server over the Redis protocol:
//
//	kiwi-cli set session:42 alice --ttl 30m
//	kiwi-cli -o json get session:42
//	kiwi-cli del session:42 session:43
//	kiwi-cli -s 10.0.0.5:6379 repl
//
// Defaults come from ~/.kiwi/cli.yaml and can be overridden by KIWI_SERVER,
// KIWI_OUTPUT or the matching flags.
package main
