package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/kiwi/pkg/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"raw", FormatRaw, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatRaw).(*RawFormatter); !ok {
		t.Error("expected RawFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TableFormatter); !ok {
		t.Error("unknown format should default to table")
	}
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Value
		want Reply
	}{
		{"simple", resp.SimpleString("OK"), Reply{Type: TypeString, Value: "OK"}},
		{"bulk", resp.BulkString("bar"), Reply{Type: TypeBulk, Value: "bar"}},
		{"integer", resp.Integer(3), Reply{Type: TypeInteger, Value: int64(3)}},
		{"error", resp.Error("ERR nope"), Reply{Type: TypeError, Value: "ERR nope"}},
		{"null bulk", resp.NullBulkString(), Reply{Type: TypeNil}},
		{"null array", resp.NullArray(), Reply{Type: TypeNil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromValue(tt.in)
			if got.Type != tt.want.Type || got.Value != tt.want.Value {
				t.Errorf("FromValue() = %+v, want %+v", got, tt.want)
			}
		})
	}

	arr := FromValue(resp.Array(resp.BulkString("a"), resp.NullBulkString()))
	elems, ok := arr.Value.([]Reply)
	if arr.Type != TypeArray || !ok || len(elems) != 2 || elems[1].Type != TypeNil {
		t.Errorf("array reply = %+v", arr)
	}
	if !FromValue(resp.Error("ERR x")).IsError() {
		t.Error("IsError() = false for error reply")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, FromValue(resp.BulkString("bar"))); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["type"] != "bulk" || got["value"] != "bar" {
		t.Errorf("got %v", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, FromValue(resp.Integer(7))); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if got["type"] != "integer" || got["value"] != 7 {
		t.Errorf("got %v", got)
	}
}

func TestRawFormatter(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Value
		want string
	}{
		{"bulk", resp.BulkString("bar"), "bar\n"},
		{"simple", resp.SimpleString("PONG"), "PONG\n"},
		{"integer", resp.Integer(2), "2\n"},
		{"nil", resp.NullBulkString(), "\n"},
		{"error", resp.Error("ERR bad"), "ERR bad\n"},
		{"array", resp.Array(resp.BulkString("a"), resp.Integer(1)), "a\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&RawFormatter{}).Format(&buf, FromValue(tt.in)); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("raw = %q, want %q", buf.String(), tt.want)
			}
		})
	}

	var buf bytes.Buffer
	_ = (&RawFormatter{}).Format(&buf, 42)
	if buf.String() != "42\n" {
		t.Errorf("raw non-reply = %q", buf.String())
	}
}

func TestTableFormatter_Reply(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, FromValue(resp.BulkString("hello world"))); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "TYPE") || !strings.Contains(lines[0], "VALUE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"hello world"`) {
		t.Errorf("row = %q", lines[1])
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}
	if err := f.Format(&buf, FromValue(resp.NullBulkString())); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "nil  (nil)" {
		t.Errorf("table = %q", got)
	}
}

func TestTableFormatter_Array(t *testing.T) {
	var buf bytes.Buffer
	v := resp.Array(resp.BulkString("a"), resp.Integer(5))
	if err := (&TableFormatter{}).Format(&buf, FromValue(v)); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"#", "1", `"a"`, "2", "integer", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Fallback(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"n": 1`) {
		t.Errorf("fallback = %q", buf.String())
	}

	buf.Reset()
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("nil data wrote %q, err %v", buf.String(), err)
	}
}

func TestTable_Render(t *testing.T) {
	tbl := &Table{}
	tbl.SetHeaders("NAME", "AGE")
	tbl.AddRow("alice", "30")
	tbl.AddRow("bob", "4")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatal(err)
	}

	want := "NAME   AGE\nalice  30\nbob    4\n"
	if buf.String() != want {
		t.Errorf("Render() =\n%q\nwant\n%q", buf.String(), want)
	}
}
