package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierau/chatbot-showeasy/internal/service/docs"
)

const documentSummarySchema = `
{
  "type": "object",
  "properties": {}
}
`

const documentDetailSchema = `
{
  "type": "object",
  "properties": {
    "document_ids": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Two-digit document IDs from the summary listing, e.g. [\"01\", \"04\"]"
    }
  },
  "required": ["document_ids"]
}
`

// Documents exposes the platform reference documents.
type Documents struct {
	store *docs.Store
}

func NewDocuments(store *docs.Store) *Documents {
	return &Documents{store: store}
}

func (d *Documents) DocumentSummary(_ context.Context, _ json.RawMessage) (string, error) {
	return d.store.Summaries(), nil
}

func (d *Documents) DocumentDetail(_ context.Context, args json.RawMessage) (string, error) {
	var input struct {
		DocumentIDs json.RawMessage `json:"document_ids"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return errorPayload(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	ids, err := parseDocumentIDs(input.DocumentIDs)
	if err != nil {
		return errorPayload(err.Error()), nil
	}

	// Validate the whole request before fetching anything, so a partially
	// wrong call comes back as one correctable error instead of a mix of
	// content and complaints.
	var invalid []string
	for _, id := range ids {
		if _, ok := d.store.Get(id); !ok {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return errorPayload(fmt.Sprintf("unknown document IDs: %s, valid IDs are %s",
			strings.Join(invalid, ", "), strings.Join(d.store.IDs(), ", "))), nil
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		doc, _ := d.store.Get(id)
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n---\n\n"), nil
}

// parseDocumentIDs accepts either a JSON array of IDs or a bare string,
// since models frequently send one ID unwrapped.
func parseDocumentIDs(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("document_ids is required")
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("document_ids must be a string or an array of strings")
		}
		ids = []string{single}
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("document_ids is required")
	}
	return out, nil
}

func (d *Documents) GetDefinitions() map[string]struct {
	Description string
	Schema      string
	Handler     func(context.Context, json.RawMessage) (string, error)
} {
	return map[string]struct {
		Description string
		Schema      string
		Handler     func(context.Context, json.RawMessage) (string, error)
	}{
		"document_summary": {"List the platform reference documents with a one-paragraph summary of each. Use this first to find which document to read.", documentSummarySchema, d.DocumentSummary},
		"document_detail":  {"Read the full content of one or more reference documents by their two-digit IDs.", documentDetailSchema, d.DocumentDetail},
	}
}
