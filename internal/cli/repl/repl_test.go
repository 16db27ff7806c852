package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
)

// recorder is an ExecFunc that records commands and echoes them back.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(args []string, w io.Writer) error {
	r.calls = append(r.calls, args)
	if r.err != nil {
		return r.err
	}
	fmt.Fprintln(w, strings.Join(args, "|"))
	return nil
}

func runREPL(t *testing.T, input string, rec *recorder) (string, *History) {
	t.Helper()
	var out bytes.Buffer
	h := NewHistory("")
	r := New(rec.exec, WithIO(strings.NewReader(input), &out), WithHistory(h), WithPrompt("test"))
	if err := r.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), h
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\nGET never\n"},
		{"EOF", ""},
		{"EOF after command", "PING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			runREPL(t, tt.input, rec)
			for _, c := range rec.calls {
				if c[0] == "GET" {
					t.Errorf("command after exit was executed: %v", c)
				}
			}
		})
	}
}

func TestREPL_Run_Quit(t *testing.T) {
	rec := &recorder{}
	runREPL(t, "quit\nGET never\n", rec)

	want := [][]string{{"quit"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v (QUIT is sent, then the loop ends)", rec.calls, want)
	}
}

func TestREPL_Run_Commands(t *testing.T) {
	rec := &recorder{}
	out, h := runREPL(t, "SET k \"a b\"\n\n\nGET k\nexit\n", rec)

	want := [][]string{{"SET", "k", "a b"}, {"GET", "k"}}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if !strings.Contains(out, "SET|k|a b\n") {
		t.Errorf("output missing exec result:\n%s", out)
	}
	if prompts := strings.Count(out, "test> "); prompts != 5 {
		t.Errorf("prompts = %d, want 5", prompts)
	}
	if h.Get(0) != "exit" || h.Get(1) != "GET k" {
		t.Errorf("history = %q, %q", h.Get(0), h.Get(1))
	}
}

func TestREPL_Run_Errors(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	out, _ := runREPL(t, "GET k\nSET \"open\nexit\n", rec)

	if !strings.Contains(out, "Error: connection refused") {
		t.Errorf("exec error not printed:\n%s", out)
	}
	if !strings.Contains(out, "Error: unbalanced quotes") {
		t.Errorf("parse error not printed:\n%s", out)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v, want only GET", rec.calls)
	}
}

func TestREPL_Help(t *testing.T) {
	rec := &recorder{}
	out, _ := runREPL(t, "help g\nexit\n", rec)

	if !strings.Contains(out, "GET\n") {
		t.Errorf("help output:\n%s", out)
	}
	if len(rec.calls) != 0 {
		t.Errorf("help should not reach the server: %v", rec.calls)
	}
}

func TestREPL_Hint(t *testing.T) {
	rec := &recorder{}
	out, _ := runREPL(t, "GE k\nexit\n", rec)

	if !strings.Contains(out, "hint: did you mean GET?") {
		t.Errorf("missing hint:\n%s", out)
	}
	if len(rec.calls) != 1 {
		t.Errorf("unknown commands are still sent: %v", rec.calls)
	}
}
