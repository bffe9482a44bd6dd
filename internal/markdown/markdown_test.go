package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasic(t *testing.T) {
	out := Render("# Page analysis\n\n- a **button**\n- a link")
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected heading in output, got: %s", out)
	}
	if !strings.Contains(out, "<strong>button</strong>") {
		t.Errorf("expected bold text in output, got: %s", out)
	}
	if !strings.Contains(out, "<li>") {
		t.Errorf("expected list items in output, got: %s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	if out := Render(""); out != "" {
		t.Errorf("expected empty output for empty input, got %q", out)
	}
}

func TestRenderExternalLinks(t *testing.T) {
	out := Render("[example](https://example.com)")
	if !strings.Contains(out, `target="_blank"`) {
		t.Errorf("expected external link attributes, got: %s", out)
	}
	if !strings.Contains(out, `rel="noopener noreferrer"`) {
		t.Errorf("expected rel attributes, got: %s", out)
	}
}
