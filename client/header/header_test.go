package header_test

import (
	"sync"
	"testing"

	"github.com/adamwoolhether/httpc/client/header"
	"github.com/google/go-cmp/cmp"
)

func TestStore_AppendKeepsOrderAndDuplicates(t *testing.T) {
	s := header.New()
	s.Append("Accept", "application/json")
	s.Append("X-Custom", "1")
	s.Append("X-Custom", "2")

	want := []string{"Accept: application/json", "X-Custom: 1", "X-Custom: 2"}
	if diff := cmp.Diff(want, s.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if s.Len() != 3 {
		t.Errorf("expected len 3, got %d", s.Len())
	}
}

func TestStore_NoValidation(t *testing.T) {
	s := header.New()
	s.Append("", "")
	s.Append("weird key", "a:b:c")

	want := []string{": ", "weird key: a:b:c"}
	if diff := cmp.Diff(want, s.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	s := header.New("X: 1")

	snap := s.Snapshot()
	s.Append("X", "2")

	if diff := cmp.Diff([]string{"X: 1"}, snap); diff != "" {
		t.Errorf("snapshot changed after append (-want +got):\n%s", diff)
	}

	snap[0] = "mutated"
	if got := s.Lines()[0]; got != "X: 1" {
		t.Errorf("store changed through snapshot: %q", got)
	}
}

func TestStore_NewCopiesInput(t *testing.T) {
	seed := []string{"A: 1"}
	s := header.New(seed...)
	seed[0] = "B: 2"

	if got := s.Lines()[0]; got != "A: 1" {
		t.Errorf("store aliased constructor input: %q", got)
	}
}

func TestStore_EmptySnapshot(t *testing.T) {
	s := header.New()

	snap := s.Snapshot()
	if snap == nil || len(snap) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", snap)
	}
}

func TestStore_ConcurrentAppendAndSnapshot(t *testing.T) {
	s := header.New()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			s.Append("K", "v")
		})
		wg.Go(func() {
			_ = s.Snapshot()
		})
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected 50 lines, got %d", s.Len())
	}
}

func TestParse(t *testing.T) {
	testCases := map[string]struct {
		line   string
		key    string
		value  string
		wantOK bool
	}{
		"simple":       {line: "Accept: text/plain", key: "Accept", value: "text/plain", wantOK: true},
		"noSpace":      {line: "Accept:text/plain", key: "Accept", value: "text/plain", wantOK: true},
		"colonInValue": {line: "X-Time: 12:30", key: "X-Time", value: "12:30", wantOK: true},
		"emptyValue":   {line: "X-Empty:", key: "X-Empty", value: "", wantOK: true},
		"noColon":      {line: "garbage", wantOK: false},
		"emptyKey":     {line: ": value", wantOK: false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			key, value, ok := header.Parse(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if key != tc.key || value != tc.value {
				t.Errorf("expected (%q, %q), got (%q, %q)", tc.key, tc.value, key, value)
			}
		})
	}
}

func TestHas(t *testing.T) {
	lines := []string{"Accept: */*", "content-type: text/plain"}

	if !header.Has(lines, "Content-Type") {
		t.Error("expected case-insensitive match for Content-Type")
	}
	if header.Has(lines, "Authorization") {
		t.Error("did not expect Authorization")
	}
}
