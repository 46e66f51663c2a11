package lfn

import "testing"

func TestGenerateAliasFastPath(t *testing.T) {
	noExisting := func([11]byte) bool { return false }

	tests := []struct {
		name         string
		want         string
		wantCaseByte byte
	}{
		{"README.TXT", "README.TXT", 0},
		{"readme.txt", "README.TXT", caseLowerBase | caseLowerExt},
		{"README.txt", "README.TXT", caseLowerExt},
		{"readme.TXT", "README.TXT", caseLowerBase},
		{"a", "A", caseLowerBase},
	}
	for _, tc := range tests {
		short, cb, err := GenerateAlias(tc.name, noExisting)
		if err != nil {
			t.Fatalf("GenerateAlias(%q): %v", tc.name, err)
		}
		if cb != tc.wantCaseByte {
			t.Errorf("GenerateAlias(%q) caseByte = %#x, want %#x", tc.name, cb, tc.wantCaseByte)
		}
		if got := DisplayForm(short, 0); got != tc.want {
			t.Errorf("GenerateAlias(%q) packed as %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestGenerateAliasSlowPathAlwaysTailed(t *testing.T) {
	noExisting := func([11]byte) bool { return false }
	short, _, err := GenerateAlias("LongFileNameExample.txt", noExisting)
	if err != nil {
		t.Fatal(err)
	}
	if got := DisplayForm(short, 0); got != "LONGFI~1.TXT" {
		t.Fatalf("GenerateAlias = %q, want LONGFI~1.TXT", got)
	}
}

func TestGenerateAliasCollisionAdvancesTail(t *testing.T) {
	taken := map[[11]byte]bool{}
	exists := func(cand [11]byte) bool { return taken[cand] }

	short1, _, err := GenerateAlias("LongFileNameExample.txt", exists)
	if err != nil {
		t.Fatal(err)
	}
	taken[short1] = true

	short2, _, err := GenerateAlias("LongFileNameV2.txt", exists)
	if err != nil {
		t.Fatal(err)
	}
	if got := DisplayForm(short2, 0); got != "LONGFI~2.TXT" {
		t.Fatalf("GenerateAlias = %q, want LONGFI~2.TXT", got)
	}
}

func TestGenerateAliasDotNames(t *testing.T) {
	noExisting := func([11]byte) bool { return false }
	for _, name := range []string{".", ".."} {
		short, cb, err := GenerateAlias(name, noExisting)
		if err != nil {
			t.Fatalf("GenerateAlias(%q): %v", name, err)
		}
		if cb != 0 {
			t.Errorf("GenerateAlias(%q) caseByte = %#x, want 0", name, cb)
		}
		if got := DisplayForm(short, 0); got != name {
			t.Errorf("GenerateAlias(%q) = %q, want %q", name, got, name)
		}
	}
}

func TestGenerateAliasExhaustion(t *testing.T) {
	alwaysExists := func([11]byte) bool { return true }
	_, _, err := GenerateAlias("LongFileNameExample.txt", alwaysExists)
	if err != ErrCollision {
		t.Fatalf("err = %v, want ErrCollision", err)
	}
}

func TestSlotsPerChain(t *testing.T) {
	tests := []struct {
		units int
		want  int
	}{
		{0, 1},
		{1, 2},
		{13, 2},
		{14, 3},
		{23, 3}, // 23-char name -> ceil(23/13)+1 = 3.
	}
	for _, tc := range tests {
		if got := SlotsPerChain(tc.units); got != tc.want {
			t.Errorf("SlotsPerChain(%d) = %d, want %d", tc.units, got, tc.want)
		}
	}
}
