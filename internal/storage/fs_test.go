package storage

import (
	"io"
	"strings"
	"testing"
)

func TestValidKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"questions/q1/map.png", true},
		{"", false},
		{"/etc/passwd", false},
		{"questions/../secrets", false},
		{"questions//x", false},
		{"./x", false},
	}
	for _, tc := range cases {
		if got := ValidKey(tc.key); got != tc.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := MediaKey("q1", "map.png")
	if _, err := s.Put(key, strings.NewReader("png bytes")); err != nil {
		t.Fatal(err)
	}

	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "png bytes" {
		t.Fatalf("read back: %q %v", data, err)
	}

	u, err := s.SignedURL(key)
	if err != nil || !strings.HasPrefix(u, "file://") {
		t.Fatalf("signed url: %q %v", u, err)
	}

	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(key); err == nil {
		t.Fatal("deleted blob still readable")
	}
	// deleting twice is fine
	if err := s.Delete(key); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	// traversal is refused outright
	if _, err := s.Put("../escape", strings.NewReader("x")); err == nil {
		t.Fatal("traversal key accepted")
	}
}
