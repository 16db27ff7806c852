package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ExecFunc runs one command and writes its result to w.
type ExecFunc func(args []string, w io.Writer) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      ExecFunc
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets the prompt prefix, usually the server address.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a new REPL instance that sends each line to exec.
func New(exec ExecFunc, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "kiwi",
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory(DefaultHistoryPath()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the REPL loop. It returns on exit, on QUIT and at end of input.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprintf(r.output, "%s> ", r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		r.history.Add(line)

		if done := r.handle(line); done || eof {
			return nil
		}
	}
}

// handle runs one line and reports whether the loop should stop.
func (r *REPL) handle(line string) bool {
	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	name := args[0]
	switch strings.ToLower(name) {
	case "exit":
		return true
	case "help":
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		fmt.Fprintln(r.output, strings.Join(r.completer.Complete(prefix), " "))
		return false
	}

	if err := r.exec(args, r.output); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	if !r.completer.Known(name) {
		if s := r.completer.Complete(name); len(s) > 0 {
			fmt.Fprintf(r.output, "hint: did you mean %s?\n", strings.Join(s, ", "))
		}
	}

	return strings.EqualFold(name, "QUIT")
}
