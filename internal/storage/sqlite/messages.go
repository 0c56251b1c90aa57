package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierau/chatbot-showeasy/internal/core"
)

// MessageRepo is the sqlite conversation backend. Tool-call payloads are
// stored JSON-encoded inside the content column so the row schema stays flat.
type MessageRepo struct {
	db *sql.DB
}

var _ core.ConversationStore = (*MessageRepo)(nil)

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

type storedTurn struct {
	Content    string          `json:"content"`
	Reasoning  string          `json:"reasoning,omitempty"`
	ToolCalls  []core.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
}

func (r *MessageRepo) History(ctx context.Context, sessionID string) ([]core.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM conversation_messages
		 WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var history []core.Message
	for rows.Next() {
		var (
			role, content string
		)
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var turn storedTurn
		if err := json.Unmarshal([]byte(content), &turn); err != nil {
			// Rows written before tool-call support hold plain text.
			turn = storedTurn{Content: content}
		}
		history = append(history, core.Message{
			Role:       role,
			Content:    turn.Content,
			Reasoning:  turn.Reasoning,
			ToolCalls:  turn.ToolCalls,
			ToolCallID: turn.ToolCallID,
		})
	}
	return history, rows.Err()
}

func (r *MessageRepo) Append(ctx context.Context, sessionID string, turns ...core.Message) error {
	if len(turns) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conversation_messages (session_id, role, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, m := range turns {
		payload, err := json.Marshal(storedTurn{
			Content:    m.Content,
			Reasoning:  m.Reasoning,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		})
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, sessionID, m.Role, string(payload)); err != nil {
			return fmt.Errorf("append turn for %s: %w", sessionID, err)
		}
	}
	return tx.Commit()
}

func (r *MessageRepo) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM conversation_messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear history for %s: %w", sessionID, err)
	}
	return nil
}
