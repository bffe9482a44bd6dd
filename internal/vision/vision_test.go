package vision

import (
	"context"
	"errors"
	"testing"
)

func TestScanElements(t *testing.T) {
	analysis := `The page is a login screen.

- A blue "Sign in" button in the center
- A link to reset the password
- Username and password input fields
- A link to reset the password
Some closing remarks with nothing of interest.`

	elements := ScanElements(analysis)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d: %v", len(elements), elements)
	}
	if elements[0] != `A blue "Sign in" button in the center` {
		t.Fatalf("unexpected first element: %q", elements[0])
	}
}

func TestScanElementsEmpty(t *testing.T) {
	if got := ScanElements(""); len(got) != 0 {
		t.Fatalf("expected no elements, got %v", got)
	}
	if got := ScanElements("Just a paragraph of text."); len(got) != 0 {
		t.Fatalf("expected no elements, got %v", got)
	}
}

func TestNewAnalyzerProviders(t *testing.T) {
	a, err := NewAnalyzer(Config{Provider: ProviderOpenAI, Model: "m"})
	if err != nil {
		t.Fatalf("openai analyzer: %v", err)
	}
	if a.Provider() != ProviderOpenAI {
		t.Fatalf("unexpected provider: %s", a.Provider())
	}

	a, err = NewAnalyzer(Config{Provider: ProviderAnthropic, Model: "m"})
	if err != nil {
		t.Fatalf("anthropic analyzer: %v", err)
	}
	if a.Provider() != ProviderAnthropic {
		t.Fatalf("unexpected provider: %s", a.Provider())
	}

	if _, err := NewAnalyzer(Config{Provider: "watson"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestAnalyzeWithoutKey(t *testing.T) {
	for _, provider := range []string{ProviderOpenAI, ProviderAnthropic} {
		a, err := NewAnalyzer(Config{Provider: provider, Model: "m"})
		if err != nil {
			t.Fatalf("%s analyzer: %v", provider, err)
		}
		if _, err := a.Analyze(context.Background(), []byte("png"), ""); !errors.Is(err, ErrNoAPIKey) {
			t.Fatalf("%s: expected ErrNoAPIKey, got %v", provider, err)
		}
	}
}
