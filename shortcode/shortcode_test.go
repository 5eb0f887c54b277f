package shortcode

import "testing"

func TestDeterministicGenerate(t *testing.T) {
	g := NewGenerator(true)

	first := g.Generate("dQw4w9WgXcQ", 30)
	second := g.Generate("dQw4w9WgXcQ", 30)

	if len(first) != codeLength {
		t.Errorf("expected %d-char code, got %q", codeLength, first)
	}
	if first != second {
		t.Errorf("expected identical codes for identical input, got %q and %q", first, second)
	}

	other := g.Generate("dQw4w9WgXcQ", 31)
	if other == first {
		t.Errorf("expected distinct codes for distinct starts, both %q", first)
	}
}

func TestRandomGenerate(t *testing.T) {
	g := NewGenerator(false)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := g.Generate("dQw4w9WgXcQ", 30)
		if len(code) != codeLength {
			t.Fatalf("expected %d-char code, got %q", codeLength, code)
		}
		if seen[code] {
			t.Fatalf("duplicate random code %q", code)
		}
		seen[code] = true
	}
}
