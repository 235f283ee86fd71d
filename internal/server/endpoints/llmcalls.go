package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/llmcall"
	"github.com/vitea/chispa/internal/svcctx"
)

// LLMCallsResponse is a page of recorded provider calls, newest first.
type LLMCallsResponse struct {
	Calls []llmcall.Call `json:"calls"`
	Total int            `json:"total"`
}

// LLMCallResponse wraps one recorded call.
type LLMCallResponse struct {
	Call  *llmcall.Call `json:"call,omitempty"`
	Error string        `json:"error,omitempty"`
}

// LLMCallCountsResponse counts recorded calls by kind.
type LLMCallCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// callStore fetches the llmcall store or answers 500.
func callStore(w http.ResponseWriter, r *http.Request) *llmcall.Store {
	store := svcctx.LLMCallStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusInternalServerError, "LLM call store not available")
	}
	return store
}

// ListLLMCallsEndpoint handles GET /api/llmcalls.
type ListLLMCallsEndpoint struct{ llmcallGroup }

func (e *ListLLMCallsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls", e.handler
}

func (e *ListLLMCallsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List LLM calls
//	@Description	Recent narrative, illustration and chat calls, newest first
//	@Tags			llmcalls
//	@Produce		json
//	@Param			kind		query		string	false	"narrative, illustration or chat"
//	@Param			card_id		query		string	false	"Filter by card"
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			success		query		bool	false	"Filter by outcome"
//	@Param			limit		query		int		false	"Page size (default 100, max 500)"
//	@Param			offset		query		int		false	"Calls to skip"
//	@Param			after		query		string	false	"Only calls after this RFC 3339 time"
//	@Param			before		query		string	false	"Only calls before this RFC 3339 time"
//	@Success		200			{object}	LLMCallsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/llmcalls [get]
func (e *ListLLMCallsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}
	filter, err := llmcall.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calls := store.List(filter)
	if calls == nil {
		calls = []llmcall.Call{}
	}
	writeJSON(w, http.StatusOK, LLMCallsResponse{Calls: calls, Total: len(calls)})
}

func (e *ListLLMCallsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		filter         llmcall.QueryFilter
		failed, passed bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent provider calls",
		Example: `  chispa api llmcalls list --kind narrative --failed
  chispa api llmcalls list --card-id "The Tower" --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case failed:
				filter.Success = new(bool)
			case passed:
				ok := true
				filter.Success = &ok
			}

			path := "/api/llmcalls"
			if q := filter.Values(); len(q) > 0 {
				path += "?" + q.Encode()
			}
			var resp LLMCallsResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "narrative, illustration or chat")
	cmd.Flags().StringVar(&filter.CardID, "card-id", "", "Only calls for this card")
	cmd.Flags().StringVar(&filter.Provider, "provider", "", "Only calls to this provider")
	cmd.Flags().BoolVar(&passed, "success", false, "Only successful calls")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only failed calls")
	cmd.Flags().IntVar(&filter.Limit, "limit", llmcall.DefaultLimit, "Page size")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "Calls to skip")
	cmd.MarkFlagsMutuallyExclusive("success", "failed")
	return cmd
}

// GetLLMCallEndpoint handles GET /api/llmcalls/{id}.
type GetLLMCallEndpoint struct{ llmcallGroup }

func (e *GetLLMCallEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/{id}", e.handler
}

func (e *GetLLMCallEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get an LLM call
//	@Description	One recorded call by ID, including the prompt kind, card and outcome
//	@Tags			llmcalls
//	@Produce		json
//	@Param			id	path		string	true	"LLM call ID"
//	@Success		200	{object}	LLMCallResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/llmcalls/{id} [get]
func (e *GetLLMCallEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}
	call := store.Get(r.PathValue("id"))
	if call == nil {
		writeError(w, http.StatusNotFound, "LLM call not found")
		return
	}
	writeJSON(w, http.StatusOK, LLMCallResponse{Call: call})
}

func (e *GetLLMCallEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one provider call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp LLMCallResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/llmcalls/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp.Call)
		},
	}
}

// LLMCallCountsEndpoint handles GET /api/llmcalls/counts.
type LLMCallCountsEndpoint struct{ llmcallGroup }

func (e *LLMCallCountsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llmcalls/counts", e.handler
}

func (e *LLMCallCountsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Count LLM calls by kind
//	@Description	Number of recorded calls per kind; every kind is present, zero included
//	@Tags			llmcalls
//	@Produce		json
//	@Success		200	{object}	LLMCallCountsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/llmcalls/counts [get]
func (e *LLMCallCountsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := callStore(w, r)
	if store == nil {
		return
	}
	counts := store.CountByKind()
	for _, k := range llmcall.Kinds {
		counts[k] += 0
	}
	writeJSON(w, http.StatusOK, LLMCallCountsResponse{Counts: counts})
}

func (e *LLMCallCountsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Count provider calls by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp LLMCallCountsResponse
			if err := api.NewClient(getServerURL()).Get(cmd.Context(), "/api/llmcalls/counts", &resp); err != nil {
				return err
			}
			return api.Output(resp.Counts)
		},
	}
}
