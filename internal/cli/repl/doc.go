// Package repl provides interactive mode for kiwi-cli.
//
// Lines are split into arguments with shell-like quoting and sent to the
// server as one command each. History is kept in ~/.kiwi_history.
//
//   - repl.go: main loop
//   - args.go: argument splitting
//   - completer.go: command name completion used by help and hints
//   - history.go: history persistence
package repl
