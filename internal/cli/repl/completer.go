package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"DEL", "ECHO", "GET", "PING", "QUIT", "SET",
			"help", "exit",
		},
	}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToUpper(cmd), strings.ToUpper(prefix)) {
			suggestions = append(suggestions, cmd)
		}
	}
	sort.Strings(suggestions)
	return suggestions
}

// Known reports whether name is a complete command name.
func (c *Completer) Known(name string) bool {
	for _, cmd := range c.commands {
		if strings.EqualFold(cmd, name) {
			return true
		}
	}
	return false
}
