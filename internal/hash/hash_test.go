package hash

import "testing"

func TestComputeIsDeterministic(t *testing.T) {
	first := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "src/parser.c", "null deref at line 10")
	for i := 0; i < 10; i++ {
		again := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "src/parser.c", "null deref at line 10")
		if again != first {
			t.Fatalf("expected identical digest on repeated calls, got %q then %q", first, again)
		}
	}
}

func TestComputeIgnoresPositionReferencesInQualifier(t *testing.T) {
	a := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "a/parser.c", "null deref at line 10")
	b := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "b/parser.c", "null deref at line 55")
	if a != b {
		t.Fatalf("expected identical hashes for position-only qualifier changes, got %q and %q", a, b)
	}

	c := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "a/parser.c", "null deref at Line 10, column 4")
	d := Compute("ERROR", "NULL_DEREFERENCE", "parse_header", "a/parser.c", "null deref at Line 99, column 7")
	if c != d {
		t.Fatalf("expected case-insensitive position masking, got %q and %q", c, d)
	}
}

func TestComputeUsesBaseFilenameOnly(t *testing.T) {
	a := Compute("ERROR", "NULL_DEREFERENCE", "f", "old/dir/file.c", "boom")
	b := Compute("ERROR", "NULL_DEREFERENCE", "f", "new/place/file.c", "boom")
	if a != b {
		t.Fatalf("expected directory moves to not change the hash, got %q and %q", a, b)
	}
}

func TestComputeNormalizesProcedureFormatting(t *testing.T) {
	a := Compute("ERROR", "NULL_DEREFERENCE", "int  f( int x )", "file.c", "boom")
	b := Compute("ERROR", "NULL_DEREFERENCE", "int f( int x )", "file.c", "boom")
	if a != b {
		t.Fatalf("expected whitespace-only signature changes to not change the hash")
	}
}

func TestComputeIsSensitiveToIdentityFields(t *testing.T) {
	base := Compute("ERROR", "NULL_DEREFERENCE", "f", "file.c", "boom")

	cases := map[string]string{
		"kind":      Compute("WARNING", "NULL_DEREFERENCE", "f", "file.c", "boom"),
		"type":      Compute("ERROR", "MEMORY_LEAK", "f", "file.c", "boom"),
		"procedure": Compute("ERROR", "NULL_DEREFERENCE", "g", "file.c", "boom"),
		"file":      Compute("ERROR", "NULL_DEREFERENCE", "f", "other.c", "boom"),
		"qualifier": Compute("ERROR", "NULL_DEREFERENCE", "f", "file.c", "crash"),
	}
	for field, digest := range cases {
		if digest == base {
			t.Errorf("expected a change of %s to change the hash", field)
		}
	}
}

func TestNormalizeQualifier(t *testing.T) {
	got := NormalizeQualifier("value read at line 12 and column 3 of outline 5")
	want := "value read at line $_ and column $_ of outline 5"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
