package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/svcctx"
)

// ImageRequest asks for an illustration of any card in the deck.
type ImageRequest struct {
	CardID string `json:"card_id" example:"The Star"`
}

// ImageResponse is a standalone illustration.
type ImageResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

// ImageEndpoint handles POST /api/image.
type ImageEndpoint struct{}

func (e *ImageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/image", e.handler
}

func (e *ImageEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Standalone illustration
//	@Description	Illustration for a card, not tied to any reading
//	@Tags			reading
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ImageRequest	true	"Card to illustrate"
//	@Success		200		{object}	ImageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/image [post]
func (e *ImageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := svcctx.ReadingFrom(r.Context()).Image(r.Context(), req.CardID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImageResponse{ID: req.CardID, ImageURL: url})
}

func (e *ImageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "image <card-id>",
		Short: "Illustrate any card outside a reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ImageResponse
			if err := client.Post(cmd.Context(), "/api/image", ImageRequest{CardID: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
