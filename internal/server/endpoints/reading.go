package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/reading"
	"github.com/vitea/chispa/internal/svcctx"
)

// ReadingRequest asks for a full reading.
type ReadingRequest struct {
	Question string `json:"question" example:"What does my heart desire?"`
	Spread   int    `json:"spread" example:"3"`
}

// CardRequest addresses one card of a reading by its 0-based index.
type CardRequest struct {
	Question string `json:"question" example:"What does my heart desire?"`
	Spread   int    `json:"spread" example:"3"`
	Index    int    `json:"index" example:"0"`
}

// ReadingEndpoint handles POST /api/reading.
type ReadingEndpoint struct{ readingGroup }

func (e *ReadingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reading", e.handler
}

func (e *ReadingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Full reading
//	@Description	Draws the cards for (question, spread) and enriches every card with a narrative and an illustration.
//	@Description	Provider failures degrade the affected field only.
//	@Tags			reading
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ReadingRequest	true	"Question and number of cards"
//	@Success		200		{object}	reading.Reading
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/reading [post]
func (e *ReadingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ReadingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc := svcctx.ReadingFrom(r.Context())
	result, err := svc.Reading(r.Context(), req.Question, req.Spread)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *ReadingEndpoint) Command(getServerURL func() string) *cobra.Command {
	var spread int
	cmd := &cobra.Command{
		Use:   "new <question>",
		Short: "Get a full reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp reading.Reading
			if err := client.Post(cmd.Context(), "/api/reading", ReadingRequest{Question: args[0], Spread: spread}, &resp); err != nil {
				return err
			}
			return api.Output(readingView(resp))
		},
	}
	cmd.Flags().IntVar(&spread, "spread", 3, "Number of cards")
	return cmd
}

// CardEndpoint handles POST /api/reading/card.
type CardEndpoint struct{ readingGroup }

func (e *CardEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reading/card", e.handler
}

func (e *CardEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		One enriched card
//	@Description	Narrative and illustration for card index of (question, spread), degrading per field like a full reading.
//	@Tags			reading
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CardRequest	true	"Reading key and card index"
//	@Success		200		{object}	reading.EnrichedCard
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/reading/card [post]
func (e *CardEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveCard(w, r, (*reading.Service).Card)
}

func (e *CardEndpoint) Command(getServerURL func() string) *cobra.Command {
	return cardCommand(getServerURL, "card", "Get one card with narrative and illustration", "/api/reading/card")
}

// CardTextEndpoint handles POST /api/reading/text.
type CardTextEndpoint struct{ readingGroup }

func (e *CardTextEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reading/text", e.handler
}

func (e *CardTextEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Card narrative
//	@Description	Narrative only for card index of (question, spread). Never calls the illustration provider.
//	@Tags			reading
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CardRequest	true	"Reading key and card index"
//	@Success		200		{object}	CardTextResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/reading/text [post]
func (e *CardTextEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveCard(w, r, (*reading.Service).CardText, func(c reading.EnrichedCard) any {
		return CardTextResponse{ID: c.ID, Text: c.Text}
	})
}

func (e *CardTextEndpoint) Command(getServerURL func() string) *cobra.Command {
	return cardCommand(getServerURL, "text", "Get the narrative for one card", "/api/reading/text")
}

// CardTextResponse is the narrative for one card.
type CardTextResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// CardImageEndpoint handles POST /api/reading/image.
type CardImageEndpoint struct{ readingGroup }

func (e *CardImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reading/image", e.handler
}

func (e *CardImageEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Card illustration
//	@Description	Illustration only for card index of (question, spread). Never calls the narrative provider; text is always empty.
//	@Tags			reading
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CardRequest	true	"Reading key and card index"
//	@Success		200		{object}	reading.EnrichedCard
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/reading/image [post]
func (e *CardImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	serveCard(w, r, (*reading.Service).CardImage)
}

func (e *CardImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return cardCommand(getServerURL, "image", "Get the illustration for one card", "/api/reading/image")
}

type cardFunc func(s *reading.Service, ctx context.Context, question string, spread, index int) (reading.EnrichedCard, error)

// serveCard decodes a CardRequest, runs fn and writes the card, optionally
// reshaped by view.
func serveCard(w http.ResponseWriter, r *http.Request, fn cardFunc, view ...func(reading.EnrichedCard) any) {
	var req CardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc := svcctx.ReadingFrom(r.Context())
	card, err := fn(svc, r.Context(), req.Question, req.Spread, req.Index)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var out any = card
	if len(view) > 0 {
		out = view[0](card)
	}
	writeJSON(w, http.StatusOK, out)
}

func cardCommand(getServerURL func() string, use, short, path string) *cobra.Command {
	var spread int
	cmd := &cobra.Command{
		Use:   use + " <question> <index>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			client := api.NewClient(getServerURL())
			var resp cardView
			req := CardRequest{Question: args[0], Spread: spread, Index: index}
			if err := client.Post(cmd.Context(), path, req, &resp); err != nil {
				return err
			}
			resp.Index = index
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&spread, "spread", 3, "Number of cards in the reading")
	return cmd
}
