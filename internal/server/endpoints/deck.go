package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/svcctx"
)

// DeckResponse lists the card catalog in draw order.
type DeckResponse struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
	Total int      `json:"total"`
}

// DeckEndpoint handles GET /api/deck.
type DeckEndpoint struct{}

func (e *DeckEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/deck", e.handler
}

func (e *DeckEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Card catalog
//	@Description	Every card identifier a reading can draw
//	@Tags			deck
//	@Produce		json
//	@Success		200	{object}	DeckResponse
//	@Router			/api/deck [get]
func (e *DeckEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	catalog := svcctx.ReadingFrom(r.Context()).Catalog()
	writeJSON(w, http.StatusOK, DeckResponse{
		Name:  catalog.Name(),
		Cards: catalog.Cards(),
		Total: catalog.Len(),
	})
}

func (e *DeckEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "deck",
		Short: "List the server's card catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DeckResponse
			if err := client.Get(cmd.Context(), "/api/deck", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
