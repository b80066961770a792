package localid

import "testing"

func TestFromExternalStable(t *testing.T) {
	a := FromExternal("quickbooks", "42")
	b := FromExternal("quickbooks", "42")
	if a != b {
		t.Fatalf("ids differ across calls: %q vs %q", a, b)
	}
	if len(a) != hashWidth {
		t.Fatalf("len=%d want %d", len(a), hashWidth)
	}
}

func TestFromExternalTrimsInput(t *testing.T) {
	if FromExternal("quickbooks", " 42 ") != FromExternal("quickbooks", "42") {
		t.Fatal("surrounding whitespace changed the identifier")
	}
}

func TestFromExternalDistinct(t *testing.T) {
	if FromExternal("quickbooks", "42") == FromExternal("shopify", "42") {
		t.Fatal("same id for different integrations")
	}
	if FromExternal("quickbooks", "42") == FromExternal("quickbooks", "43") {
		t.Fatal("same id for different external ids")
	}
}

func TestNewUnique(t *testing.T) {
	if New() == New() {
		t.Fatal("random ids collided")
	}
}
