package captcha

import (
	"bytes"
	"strings"
	"testing"
)

func TestImageGeneratorProducesPNG(t *testing.T) {
	g := NewImageGenerator(4)

	answer, img, err := g.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(answer) != 4 {
		t.Fatalf("answer length = %d (%q)", len(answer), answer)
	}
	for _, r := range answer {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("answer %q contains %q outside alphabet", answer, r)
		}
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("expected png image, got % x", img[:8])
	}
}

func TestImageGeneratorVariesAnswers(t *testing.T) {
	g := NewImageGenerator(4)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		a, _, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[a] = true
	}
	if len(seen) < 2 {
		t.Fatalf("answers should vary, got %v", seen)
	}
}
