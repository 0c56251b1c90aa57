package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/internal/service/enquiry"
	"github.com/xavierau/chatbot-showeasy/internal/service/memory"
	"github.com/xavierau/chatbot-showeasy/internal/service/pipeline"
	"github.com/xavierau/chatbot-showeasy/pkg/conv"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
)

// PageContextFetcher turns the page the user is looking at into prompt
// context. Failures degrade to no context.
type PageContextFetcher interface {
	PageContext(ctx context.Context, url string) (string, error)
}

// Handler serves the conversation API.
type Handler struct {
	pipeline    *pipeline.Pipeline
	store       core.ConversationStore
	replyFlow   *enquiry.ReplyFlow
	pages       PageContextFetcher
	validate    *validator.Validate
	tokenBudget int
	encoding    string
}

func NewHandler(p *pipeline.Pipeline, store core.ConversationStore, replyFlow *enquiry.ReplyFlow, pages PageContextFetcher, tokenBudget int, encoding string) *Handler {
	return &Handler{
		pipeline:    p,
		store:       store,
		replyFlow:   replyFlow,
		pages:       pages,
		validate:    validator.New(),
		tokenBudget: tokenBudget,
		encoding:    encoding,
	}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}
	ctx := log.WithSession(r.Context(), req.SessionID, req.UserID)
	logger := log.FromCtx(ctx)

	pageContext := ""
	if req.CurrentURL != "" && h.pages != nil {
		text, err := h.pages.PageContext(ctx, req.CurrentURL)
		if err != nil {
			logger.Warn().Err(err).Str("url", req.CurrentURL).Msg("page context unavailable")
		} else {
			pageContext = text
		}
	}

	history, err := h.store.History(ctx, req.SessionID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load history")
		writeError(w, http.StatusInternalServerError, "failed to load conversation history")
		return
	}
	history = memory.TrimToBudget(history, h.tokenBudget, h.encoding)

	result := h.pipeline.Process(ctx, pipeline.Input{
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		Message:     req.UserInput,
		History:     history,
		PageContext: pageContext,
	})

	if err := h.store.Append(ctx, req.SessionID,
		core.Message{Role: core.RoleUser, Content: req.UserInput},
		core.Message{Role: core.RoleAssistant, Content: result.Reply},
	); err != nil {
		logger.Error().Err(err).Msg("failed to append turns")
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message: result.Reply,
		HTML:    conv.ToSafeHTML([]byte(result.Reply)),
	})
}

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	var req messagesRequest
	if !h.decode(w, r, &req) {
		return
	}

	history, err := h.store.History(r.Context(), req.SessionID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to load history")
		writeError(w, http.StatusInternalServerError, "failed to load conversation history")
		return
	}

	out := make([]messageDTO, 0, len(history))
	for _, m := range history {
		if m.Role != core.RoleUser && m.Role != core.RoleAssistant {
			continue
		}
		out = append(out, messageDTO{
			ID:      uuid.NewString(),
			Role:    m.Role,
			Content: m.Content,
		})
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: out})
}

func (h *Handler) EnquiryReply(w http.ResponseWriter, r *http.Request) {
	var req enquiryReplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.replyFlow.Handle(r.Context(), req.EnquiryID, req.ReplyMessage, req.ReplyChannel)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Int64("enquiry_id", req.EnquiryID).Msg("enquiry reply failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, enquiryReplyResponse{Success: result.Success, Channel: result.Channel})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the body into dst and validates it, writing the error reply
// itself. Returns false when the request was rejected.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
