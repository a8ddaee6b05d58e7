package mailer

import (
	"strings"
	"testing"
)

func TestRenderConfirmation(t *testing.T) {
	url := "http://localhost:5173/auth/confirm-account?username=alice&token=abc"

	body, err := RenderConfirmation("Alice <Doe>", url)
	if err != nil {
		t.Fatalf("RenderConfirmation() error = %v", err)
	}

	if !strings.Contains(body, "Hi Alice &lt;Doe&gt;,") {
		t.Error("expected the full name to be HTML escaped")
	}
	if strings.Count(body, "username=alice&amp;token=abc") != 3 {
		t.Errorf("expected the confirmation url three times, body:\n%s", body)
	}
}
