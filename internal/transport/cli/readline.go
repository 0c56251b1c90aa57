package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/memory"
	"github.com/xavierau/chatbot-showeasy/internal/service/pipeline"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/srv"
)

const (
	defaultSessionID = "cli-local"
	defaultUserID    = "cli-user"
)

// ReadLine is the interactive stdin chat for development.
type ReadLine struct {
	pipeline *pipeline.Pipeline
	store    core.ConversationStore
	commands core.CmdRouter
	rl       *readline.Instance
	out      io.Writer

	tokenBudget int
	encoding    string
}

var _ srv.Service = (*ReadLine)(nil)

func NewReadLine(p *pipeline.Pipeline, store core.ConversationStore, commands core.CmdRouter, tokenBudget int, encoding, runtimePath string) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		pipeline:    p,
		store:       store,
		commands:    commands,
		rl:          rl,
		out:         rl.Stdout(),
		tokenBudget: tokenBudget,
		encoding:    encoding,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("interactive chat started, /help for commands, /quit to leave")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		reply, quit := r.handleLine(ctx, strings.TrimSpace(line))
		if quit {
			return nil
		}
		if reply != "" {
			fmt.Fprintln(r.out, reply)
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// handleLine dispatches one input line. The bool reports that the user
// asked to leave.
func (r *ReadLine) handleLine(ctx context.Context, line string) (string, bool) {
	switch line {
	case "":
		return "", false
	case "/quit", "exit":
		return "", true
	}

	if reply, handled := r.commands.Execute(ctx, defaultSessionID, defaultUserID, line); handled {
		return reply, false
	}
	return r.turn(ctx, line), false
}

func (r *ReadLine) turn(ctx context.Context, line string) string {
	logger := log.FromCtx(ctx)

	history, err := r.store.History(ctx, defaultSessionID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load history")
	}
	history = memory.TrimToBudget(history, r.tokenBudget, r.encoding)

	result := r.pipeline.Process(ctx, pipeline.Input{
		UserID:    defaultUserID,
		SessionID: defaultSessionID,
		Message:   line,
		History:   history,
	})

	if err := r.store.Append(ctx, defaultSessionID,
		core.Message{Role: core.RoleUser, Content: line},
		core.Message{Role: core.RoleAssistant, Content: result.Reply},
	); err != nil {
		logger.Error().Err(err).Msg("failed to append turns")
	}
	return result.Reply
}
