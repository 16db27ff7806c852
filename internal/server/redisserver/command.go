package redisserver

import (
	"strings"

	"github.com/yndnr/kiwi/internal/core/domain"
	"github.com/yndnr/kiwi/pkg/resp"
)

// CommandKind identifies one supported command.
type CommandKind uint8

const (
	CmdGet CommandKind = iota
	CmdSet
	CmdDel
	CmdPing
	CmdEcho
	CmdQuit

	numCommandKinds
)

// commandSpec describes the name and arity of a command.
// maxArgs < 0 means variadic.
type commandSpec struct {
	name    string
	minArgs int
	maxArgs int
}

var commandSpecs = [numCommandKinds]commandSpec{
	CmdGet:  {name: "get", minArgs: 1, maxArgs: 1},
	CmdSet:  {name: "set", minArgs: 2, maxArgs: 4},
	CmdDel:  {name: "del", minArgs: 1, maxArgs: -1},
	CmdPing: {name: "ping", minArgs: 0, maxArgs: 1},
	CmdEcho: {name: "echo", minArgs: 0, maxArgs: 1},
	CmdQuit: {name: "quit", minArgs: 0, maxArgs: 0},
}

// commandsByName maps upper-case command names to kinds.
var commandsByName = func() map[string]CommandKind {
	m := make(map[string]CommandKind, numCommandKinds)
	for k := CommandKind(0); k < numCommandKinds; k++ {
		m[strings.ToUpper(commandSpecs[k].name)] = k
	}
	return m
}()

// String returns the lower-case command name.
func (k CommandKind) String() string {
	if k < numCommandKinds {
		return commandSpecs[k].name
	}
	return "unknown"
}

// Command is a translated request.
type Command struct {
	Kind CommandKind
	Args []string
}

// ToCommand translates a decoded request into a Command.
//
// The request must be an array of strings whose first element names a
// supported command. Any non-string element rejects the whole request.
func ToCommand(v resp.Value) (Command, error) {
	if v.Kind != resp.KindArray {
		return Command{}, domain.ErrInvalidArgument.WithDetailsf("expected array request, got %s", v.Kind)
	}
	if len(v.Elems) == 0 {
		return Command{}, domain.ErrInvalidArgument.WithDetails("empty command")
	}

	name, ok := v.Elems[0].Text()
	if !ok {
		return Command{}, domain.ErrInvalidArgument.WithDetails("command name must be a string")
	}

	args := make([]string, 0, len(v.Elems)-1)
	for _, e := range v.Elems[1:] {
		s, ok := e.Text()
		if !ok {
			return Command{}, domain.ErrInvalidArgument.WithDetailsf("non-string argument for '%s' command", name)
		}
		args = append(args, s)
	}

	kind, ok := commandsByName[strings.ToUpper(name)]
	if !ok {
		return Command{}, domain.ErrUnknownCommand.WithDetailsf("'%s'", name)
	}

	spec := commandSpecs[kind]
	if len(args) < spec.minArgs || (spec.maxArgs >= 0 && len(args) > spec.maxArgs) {
		return Command{}, domain.ErrInvalidArgument.WithDetailsf("wrong number of arguments for '%s' command", spec.name)
	}

	return Command{Kind: kind, Args: args}, nil
}
