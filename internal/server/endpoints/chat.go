package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/reading"
	"github.com/vitea/chispa/internal/svcctx"
)

// ChatRequest is a follow-up question about one card.
type ChatRequest struct {
	Question      string            `json:"question" example:"Will he call me back?"`
	CardID        string            `json:"card_id" example:"The Lovers"`
	PreviousCards []PreviousCard    `json:"previous_cards,omitempty"`
	ChatHistory   []ChatHistoryTurn `json:"chat_history,omitempty"`
}

// PreviousCard is a card already revealed in the reading.
type PreviousCard struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ChatHistoryTurn is one earlier message of the conversation.
type ChatHistoryTurn struct {
	Role    string `json:"role" enums:"user,assistant"`
	Content string `json:"content"`
	CardID  string `json:"card_id,omitempty"`
}

// ChatResponse is Papi's answer.
type ChatResponse struct {
	Text string `json:"text"`
}

// ChatEndpoint handles POST /api/chat.
type ChatEndpoint struct{}

func (e *ChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/chat", e.handler
}

func (e *ChatEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Follow-up chat
//	@Description	Answers a question about one card, with earlier cards and messages as context
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChatRequest	true	"Question, card and conversation so far"
//	@Success		200		{object}	ChatResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/chat [post]
func (e *ChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := reading.ChatInput{
		Question: req.Question,
		CardID:   req.CardID,
		Prior:    make([]persona.PriorCard, len(req.PreviousCards)),
		History:  make([]persona.ChatTurn, len(req.ChatHistory)),
	}
	for i, c := range req.PreviousCards {
		in.Prior[i] = persona.PriorCard{ID: c.ID, Text: c.Text}
	}
	for i, t := range req.ChatHistory {
		in.History[i] = persona.ChatTurn{Role: t.Role, Content: t.Content, CardID: t.CardID}
	}

	text, err := svcctx.ReadingFrom(r.Context()).Chat(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Text: text})
}

func (e *ChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <card-id> <question>",
		Short: "Ask Papi a follow-up question about a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ChatResponse
			req := ChatRequest{CardID: args[0], Question: args[1]}
			if err := client.Post(cmd.Context(), "/api/chat", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
