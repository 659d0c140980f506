// README: Reference matching tests (no database).
package booking

import (
	"fmt"
	"testing"

	"carelink/internal/types"
)

func TestIsCanonicalID(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"64a1b2c3d4e5f60718293a4b", true},
		{"000000000000000000000000", true},
		{"64a1b2c3d4e5f60718293a4", false},   // too short
		{"64a1b2c3d4e5f60718293a4bc", false}, // too long
		{"64A1B2C3D4E5F60718293A4B", false},  // upper case is not store-assigned
		{"64a1b2c3d4e5f60718293a4g", false},  // non-hex
		{"123456", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCanonicalID(tc.ref); got != tc.want {
			t.Errorf("IsCanonicalID(%q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func testOrder(id string) *Order {
	return &Order{ID: types.ID(id), Status: StatusPending}
}

func TestMatchReferenceDisplayCode(t *testing.T) {
	// trailing 6 hex of the first id: 00ffff -> 65535
	orders := []*Order{
		testOrder("aaaaaaaaaaaaaaaaaa00ffff"),
		testOrder("bbbbbbbbbbbbbbbbbb000001"),
	}
	code := fmt.Sprintf("%d", DisplayCode(orders[0].ID))
	o, via := matchReference(orders, code)
	if o == nil || o.ID != orders[0].ID {
		t.Fatalf("expected display-code match for %q, got %v", code, o)
	}
	if via != ViaDisplayCode {
		t.Errorf("expected ViaDisplayCode, got %q", via)
	}
}

func TestMatchReferenceTrailingFragment(t *testing.T) {
	orders := []*Order{
		testOrder("aaaaaaaaaaaaaaaa18293a4b"),
		testOrder("bbbbbbbbbbbbbbbbbbbbbbbb"),
	}
	// last 8 hex characters of the canonical id
	o, via := matchReference(orders, "18293a4b")
	if o == nil || o.ID != orders[0].ID {
		t.Fatalf("expected fragment match, got %v", o)
	}
	if via != ViaFragment {
		t.Errorf("expected ViaFragment, got %q", via)
	}

	// a shorter slice of the tail still matches
	o, _ = matchReference(orders, "293a4")
	if o == nil || o.ID != orders[0].ID {
		t.Fatalf("expected partial fragment match, got %v", o)
	}
}

func TestMatchReferenceSuffix(t *testing.T) {
	// the fragment spans more than the trailing window, so only the suffix
	// pass can find it
	orders := []*Order{testOrder("aaaaaaaaaaaa123456789abc")}
	o, via := matchReference(orders, "123456789abc")
	if o == nil {
		t.Fatal("expected suffix match")
	}
	if via != ViaFragment {
		t.Errorf("expected ViaFragment, got %q", via)
	}
}

func TestMatchReferenceMostRecentFirst(t *testing.T) {
	// both ids share the same tail; candidates arrive newest first and the
	// first match wins
	orders := []*Order{
		testOrder("aaaaaaaaaaaaaaaa00abcdef"),
		testOrder("bbbbbbbbbbbbbbbb00abcdef"),
	}
	o, _ := matchReference(orders, "abcdef")
	if o == nil || o.ID != orders[0].ID {
		t.Fatalf("expected first (most recent) candidate to win, got %v", o)
	}
}

func TestMatchReferenceNoMatch(t *testing.T) {
	orders := []*Order{testOrder("aaaaaaaaaaaaaaaaaaaaaaaa")}
	if o, _ := matchReference(orders, "999999"); o != nil {
		t.Fatalf("expected no match, got %v", o)
	}
	if o, _ := matchReference(nil, "123456"); o != nil {
		t.Fatalf("expected no match on empty candidates, got %v", o)
	}
	// an empty reference must never Contains-match a candidate
	if o, _ := matchReference(orders, ""); o != nil {
		t.Fatalf("expected no match on empty reference, got %v", o)
	}
}

func TestMatchReferenceNumericPrefersDisplayCode(t *testing.T) {
	// 65535 is both the display code of the first order and a substring of
	// nothing else; the display-code pass must run before fragment matching
	first := testOrder("cccccccccccccccccc00ffff")
	second := testOrder("dddddddddddddddddd065535")
	o, via := matchReference([]*Order{second, first}, "65535")
	if o == nil || o.ID != first.ID {
		t.Fatalf("expected display-code owner to win, got %v", o)
	}
	if via != ViaDisplayCode {
		t.Errorf("expected ViaDisplayCode, got %q", via)
	}
}
