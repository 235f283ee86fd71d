package reading

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vitea/chispa/internal/deck"
	"github.com/vitea/chispa/internal/persona"
)

// Reading is a full enriched reading.
type Reading struct {
	Question string         `json:"question"`
	Spread   int            `json:"spread"`
	Cards    []EnrichedCard `json:"cards"`
}

// ChatInput is a follow-up question about one card.
type ChatInput struct {
	Question string
	CardID   string
	Prior    []persona.PriorCard
	History  []persona.ChatTurn
}

// Service composes the selector and the orchestrator into the operations
// exposed over HTTP.
type Service struct {
	selector *Selector
	orch     *Orchestrator
	logger   *slog.Logger
}

// NewService creates a reading service.
func NewService(selector *Selector, orch *Orchestrator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{selector: selector, orch: orch, logger: logger}
}

// Selector returns the card selector.
func (s *Service) Selector() *Selector { return s.selector }

// Orchestrator returns the enrichment orchestrator.
func (s *Service) Orchestrator() *Orchestrator { return s.orch }

// Catalog returns the deck.
func (s *Service) Catalog() *deck.Catalog { return s.selector.Catalog() }

// Reading resolves the cards for (question, spread) and enriches all of them.
// Only validation errors are returned; provider failures degrade per field.
func (s *Service) Reading(ctx context.Context, question string, spread int) (*Reading, error) {
	cards, err := s.resolve(question, spread)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reading resolved", "spread", spread, "cards", cards)

	return &Reading{
		Question: question,
		Spread:   spread,
		Cards:    s.orch.EnrichReading(ctx, cards, question),
	}, nil
}

// Card enriches the card at index of (question, spread) with both fields,
// degrading per field like a full reading.
func (s *Service) Card(ctx context.Context, question string, spread, index int) (EnrichedCard, error) {
	card, err := s.cardAt(question, spread, index)
	if err != nil {
		return EnrichedCard{}, err
	}
	return s.orch.EnrichOne(ctx, card, question, spread, index), nil
}

// CardText generates only the narrative for the card at index.
// A provider failure is returned as an ErrProvider error.
func (s *Service) CardText(ctx context.Context, question string, spread, index int) (EnrichedCard, error) {
	card, err := s.cardAt(question, spread, index)
	if err != nil {
		return EnrichedCard{}, err
	}
	text, err := s.orch.Narrative(ctx, card, question, spread, index)
	if err != nil {
		return EnrichedCard{ID: card}, err
	}
	return EnrichedCard{ID: card, Text: text}, nil
}

// CardImage generates only the illustration for the card at index.
// A provider failure is returned as an ErrProvider error.
func (s *Service) CardImage(ctx context.Context, question string, spread, index int) (EnrichedCard, error) {
	card, err := s.cardAt(question, spread, index)
	if err != nil {
		return EnrichedCard{}, err
	}
	url, err := s.orch.Illustration(ctx, card)
	if err != nil {
		return EnrichedCard{ID: card}, err
	}
	return EnrichedCard{ID: card, ImageURL: url}, nil
}

// Image generates an illustration for any card in the deck, outside any reading.
func (s *Service) Image(ctx context.Context, cardID string) (string, error) {
	if err := s.checkCard(cardID); err != nil {
		return "", err
	}
	return s.orch.Illustration(ctx, cardID)
}

// Chat answers a follow-up question about a card.
func (s *Service) Chat(ctx context.Context, in ChatInput) (string, error) {
	if in.Question == "" {
		return "", ErrInvalidQuestion
	}
	if err := s.checkCard(in.CardID); err != nil {
		return "", err
	}
	return s.orch.Chat(ctx, in.CardID, in.Question, in.Prior, in.History)
}

// resolve accepts any non-empty question; keys are compared exactly.
func (s *Service) resolve(question string, spread int) ([]string, error) {
	if question == "" {
		return nil, ErrInvalidQuestion
	}
	return s.selector.Resolve(question, spread)
}

// cardAt validates everything before resolving so a rejected request never
// creates a reading.
func (s *Service) cardAt(question string, spread, index int) (string, error) {
	if question == "" {
		return "", ErrInvalidQuestion
	}
	if err := s.selector.validate(spread); err != nil {
		return "", err
	}
	if index < 0 || index >= spread {
		return "", fmt.Errorf("%w: index %d in a spread of %d", ErrCardNotFound, index, spread)
	}
	cards, err := s.selector.Resolve(question, spread)
	if err != nil {
		return "", err
	}
	return cards[index], nil
}

func (s *Service) checkCard(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: card_id is required", ErrUnknownCard)
	}
	if !s.selector.Catalog().Contains(id) {
		return fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return nil
}
