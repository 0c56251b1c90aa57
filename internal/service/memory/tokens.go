package memory

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
	tkErr  error
)

func getTokenizer(encoding string) (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(encoding)
	})
	return tk, tkErr
}

func countTokens(enc *tiktoken.Tiktoken, text string) int {
	if text == "" {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

// TrimToBudget drops the oldest turns until the history fits the token
// budget, keeping the newest turns intact. A budget of zero means no limit.
// If the tokenizer cannot load, the history passes through untrimmed; a long
// prompt beats a dead conversation.
func TrimToBudget(history []core.Message, budget int, encoding string) []core.Message {
	if budget <= 0 || len(history) == 0 {
		return history
	}
	enc, err := getTokenizer(encoding)
	if err != nil {
		return history
	}

	total := 0
	cut := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		total += countTokens(enc, history[i].Content) + countTokens(enc, history[i].Reasoning)
		if total > budget {
			break
		}
		cut = i
	}
	if cut == len(history) {
		// Even the newest turn alone overruns; keep it anyway.
		return history[len(history)-1:]
	}
	return history[cut:]
}
