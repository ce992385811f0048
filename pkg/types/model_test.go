package types

import "testing"

func TestParseModelKind(t *testing.T) {
	if k, err := ParseModelKind("LLM"); err != nil || k != KindLLM {
		t.Fatalf("ParseModelKind(LLM) = (%v, %v)", k, err)
	}
	// Empty defaults to LLM for compatibility with older clients.
	if k, err := ParseModelKind(""); err != nil || k != KindLLM {
		t.Fatalf("ParseModelKind(\"\") = (%v, %v)", k, err)
	}
	if _, err := ParseModelKind("vision"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestModelSpecNormalize(t *testing.T) {
	s, err := ModelSpec{Name: "llama", SizeInBillions: 7}.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if s.Kind != KindLLM {
		t.Fatalf("Kind = %v, want KindLLM", s.Kind)
	}

	if _, err := (ModelSpec{}).Normalize(); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := (ModelSpec{Name: "x", SizeInBillions: -1}).Normalize(); err == nil {
		t.Fatalf("expected error for negative size")
	}
	if _, err := (ModelSpec{Name: "x", GPUs: -2}).Normalize(); err == nil {
		t.Fatalf("expected error for negative gpu count")
	}
}
