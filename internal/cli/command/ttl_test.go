package command

import (
	"reflect"
	"testing"
	"time"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"90", 90 * time.Second, false},
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"2h", 2 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"1500ms", 1500 * time.Millisecond, false},
		{" 10S ", 10 * time.Second, false},
		{"", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"5x", 0, true},
		{"1.5h", 0, true},
		{"ms", 0, true},
		{"9999999999999d", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTTL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTTL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetArgs(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want []string
	}{
		{0, []string{"SET", "k", "v"}},
		{90 * time.Second, []string{"SET", "k", "v", "EX", "90"}},
		{24 * time.Hour, []string{"SET", "k", "v", "EX", "86400"}},
		{1500 * time.Millisecond, []string{"SET", "k", "v", "PX", "1500"}},
		{250 * time.Millisecond, []string{"SET", "k", "v", "PX", "250"}},
	}

	for _, tt := range tests {
		if got := setArgs("k", "v", tt.ttl); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("setArgs(ttl=%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestSplitTrailingTTL(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantPos []string
		wantTTL string
		wantErr bool
	}{
		{"none", []string{"k", "v"}, []string{"k", "v"}, "", false},
		{"long", []string{"k", "v", "--ttl", "5m"}, []string{"k", "v"}, "5m", false},
		{"short", []string{"k", "v", "-t", "30"}, []string{"k", "v"}, "30", false},
		{"equals", []string{"k", "v", "--ttl=1d"}, []string{"k", "v"}, "1d", false},
		{"terminator", []string{"k", "--", "--ttl"}, []string{"k", "--ttl"}, "", false},
		{"missing value", []string{"k", "v", "--ttl"}, nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ttl, err := splitTrailingTTL(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(pos, tt.wantPos) || ttl != tt.wantTTL {
				t.Errorf("got (%v, %q), want (%v, %q)", pos, ttl, tt.wantPos, tt.wantTTL)
			}
		})
	}
}
