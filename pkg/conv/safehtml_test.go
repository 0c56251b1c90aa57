package conv

import (
	"strings"
	"testing"
)

func TestToSafeHTML(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    string
		notContains string
	}{
		{
			name:     "bold survives",
			input:    "**Jazz by the Bay**",
			contains: "<strong>Jazz by the Bay</strong>",
		},
		{
			name:     "links survive",
			input:    "[tickets](https://platform.test/events/42)",
			contains: `href="https://platform.test/events/42"`,
		},
		{
			name:        "script is stripped",
			input:       `hello <script>alert("x")</script> world`,
			contains:    "hello",
			notContains: "<script>",
		},
		{
			name:        "event handlers are stripped",
			input:       `<a href="https://x.test" onclick="steal()">go</a>`,
			contains:    "go",
			notContains: "onclick",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSafeHTML([]byte(tt.input))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("expected %q to contain %q", got, tt.contains)
			}
			if tt.notContains != "" && strings.Contains(got, tt.notContains) {
				t.Errorf("expected %q to not contain %q", got, tt.notContains)
			}
		})
	}
}
