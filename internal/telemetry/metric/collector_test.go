package metric

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fixedSizer int

func (s *fixedSizer) Len() int { return int(*s) }

func TestStoreCollector(t *testing.T) {
	size := fixedSizer(3)
	c := NewStoreCollector(&size)

	expected := `
# HELP kiwi_keys Stored keys, including expired keys not yet evicted.
# TYPE kiwi_keys gauge
kiwi_keys 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected)); err != nil {
		t.Fatal(err)
	}

	size = 7
	if got := testutil.ToFloat64(c); got != 7 {
		t.Errorf("kiwi_keys = %v, want 7", got)
	}
}

func TestStoreCollector_Register(t *testing.T) {
	r := NewRegistry()
	size := fixedSizer(0)

	if err := r.Register(NewStoreCollector(&size)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(NewStoreCollector(&size)); err == nil {
		t.Fatal("second Register should fail with duplicate descriptor")
	}
}
