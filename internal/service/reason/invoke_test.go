package reason

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

type stubProvider struct {
	reply    string
	err      error
	lastSeen []core.Message
}

func (s *stubProvider) Chat(_ context.Context, history []core.Message, _ []core.Tool) (core.Message, error) {
	s.lastSeen = history
	if s.err != nil {
		return core.Message{}, s.err
	}
	return core.Message{Role: core.RoleAssistant, Content: s.reply}, nil
}

var testContract = Contract{
	Name: "test-contract",
	Task: "Classify the input.",
	Inputs: []Field{
		{Name: "text", Description: "the text to classify"},
	},
	Outputs: []Field{
		{Name: "label", Description: "the chosen label"},
		{Name: "score", Description: "confidence between 0 and 1"},
	},
}

type testOutput struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    testOutput
		wantErr bool
	}{
		{
			name:  "plain json",
			reply: `{"label": "ok", "score": 0.9}`,
			want:  testOutput{Label: "ok", Score: 0.9},
		},
		{
			name:  "fenced json",
			reply: "```json\n{\"label\": \"ok\", \"score\": 0.5}\n```",
			want:  testOutput{Label: "ok", Score: 0.5},
		},
		{
			name:  "json wrapped in prose",
			reply: "Here is the result:\n{\"label\": \"ok\", \"score\": 1}\nHope that helps!",
			want:  testOutput{Label: "ok", Score: 1},
		},
		{
			name:    "not json at all",
			reply:   "sorry, I cannot do that",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{reply: tt.reply}
			got, err := Invoke[testOutput](context.Background(), provider, testContract, []Input{
				{Name: "text", Value: "hello"},
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvokePromptShape(t *testing.T) {
	provider := &stubProvider{reply: `{"label": "x", "score": 0}`}
	_, err := Invoke[testOutput](context.Background(), provider, testContract, []Input{
		{Name: "text", Value: "first value"},
		{Name: "context", Value: "second value"},
	})
	require.NoError(t, err)

	require.Len(t, provider.lastSeen, 2)
	assert.Equal(t, core.RoleSystem, provider.lastSeen[0].Role)
	assert.Contains(t, provider.lastSeen[0].Content, "Classify the input.")
	assert.Contains(t, provider.lastSeen[0].Content, `"label"`)
	assert.Equal(t, core.RoleUser, provider.lastSeen[1].Role)
	assert.Contains(t, provider.lastSeen[1].Content, "TEXT:\nfirst value")
	assert.Contains(t, provider.lastSeen[1].Content, "CONTEXT:\nsecond value")
}

func TestInvokeProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("unreachable")}
	_, err := Invoke[testOutput](context.Background(), provider, testContract, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test-contract")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", "SELECT 1", "SELECT 1"},
		{"sql fence", "```sql\nSELECT 1\n```", "SELECT 1"},
		{"bare fence", "```\nSELECT 1\n```", "SELECT 1"},
		{"fence with json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  ```sql\nSELECT 1\n```  ", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}
