package model

import "testing"

func TestColonyTypeRoundTrip(t *testing.T) {
	for _, ct := range []ColonyType{ColonyStar, ColonyRing, ColonyExplorer} {
		parsed, err := ParseColonyType(ct.String())
		if err != nil {
			t.Fatalf("parse %s: %v", ct, err)
		}
		if parsed != ct {
			t.Fatalf("expected %v got %v", ct, parsed)
		}
	}
}

func TestParseColonyTypeUnknown(t *testing.T) {
	if _, err := ParseColonyType("mesh"); err == nil {
		t.Fatal("expected error for unknown colony type")
	}
}
