package reading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vitea/chispa/internal/deck"
	"github.com/vitea/chispa/internal/persona"
	"github.com/vitea/chispa/internal/providers"
)

func newTestService(t *testing.T, mock *providers.MockClient) *Service {
	t.Helper()
	o, _ := newTestOrchestrator(t, mock, Settings{})
	return NewService(NewSelector(deck.Default()), o, nil)
}

func TestService_Reading(t *testing.T) {
	mock := newFastMock()
	svc := newTestService(t, mock)

	r, err := svc.Reading(context.Background(), "Will I find love?", 3)
	if err != nil {
		t.Fatalf("Reading() error = %v", err)
	}
	if r.Question != "Will I find love?" || r.Spread != 3 || len(r.Cards) != 3 {
		t.Fatalf("Reading() = %+v", r)
	}

	want, _ := svc.Selector().Resolve("Will I find love?", 3)
	got := make([]string, len(r.Cards))
	for i, c := range r.Cards {
		got[i] = c.ID
		if c.Text == "" || c.ImageURL == "" {
			t.Errorf("card %d not enriched: %+v", i, c)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reading cards differ from selection (-want +got):\n%s", diff)
	}
}

func TestService_TextBeforeReadingUsesSameCards(t *testing.T) {
	svc := newTestService(t, newFastMock())

	card, err := svc.CardText(context.Background(), "X", 3, 1)
	if err != nil {
		t.Fatalf("CardText() error = %v", err)
	}

	cards, _ := svc.Selector().Resolve("X", 3)
	if card.ID != cards[1] {
		t.Errorf("CardText().ID = %q, want %q", card.ID, cards[1])
	}

	r, err := svc.Reading(context.Background(), "X", 3)
	if err != nil {
		t.Fatalf("Reading() error = %v", err)
	}
	if r.Cards[1].ID != card.ID {
		t.Errorf("reading card 1 = %q, want %q", r.Cards[1].ID, card.ID)
	}
	if svc.Selector().Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Selector().Len())
	}
}

func TestService_SingleFieldCallsOnlyOneProvider(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		mock := newFastMock()
		svc := newTestService(t, mock)

		card, err := svc.CardImage(context.Background(), "q", 3, 0)
		if err != nil {
			t.Fatalf("CardImage() error = %v", err)
		}
		if card.ImageURL == "" || card.Text != "" {
			t.Errorf("CardImage() = %+v", card)
		}
		if mock.ChatCount() != 0 || mock.ImageCount() != 1 {
			t.Errorf("calls = %d chat / %d image, want 0/1", mock.ChatCount(), mock.ImageCount())
		}
	})

	t.Run("text", func(t *testing.T) {
		mock := newFastMock()
		svc := newTestService(t, mock)

		card, err := svc.CardText(context.Background(), "q", 3, 2)
		if err != nil {
			t.Fatalf("CardText() error = %v", err)
		}
		if card.Text == "" || card.ImageURL != "" {
			t.Errorf("CardText() = %+v", card)
		}
		if mock.ChatCount() != 1 || mock.ImageCount() != 0 {
			t.Errorf("calls = %d chat / %d image, want 1/0", mock.ChatCount(), mock.ImageCount())
		}
	})
}

func TestService_SingleFieldProviderFailure(t *testing.T) {
	mock := newFastMock()
	mock.ShouldFail = true
	svc := newTestService(t, mock)

	card, err := svc.CardText(context.Background(), "q", 3, 0)
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("CardText() error = %v, want ErrProvider", err)
	}
	if card.ID == "" {
		t.Error("CardText() should still report the card id")
	}
	if _, err := svc.CardImage(context.Background(), "q", 3, 0); !errors.Is(err, ErrProvider) {
		t.Errorf("CardImage() error = %v, want ErrProvider", err)
	}

	// The combined endpoint degrades instead.
	one, err := svc.Card(context.Background(), "q", 3, 0)
	if err != nil {
		t.Fatalf("Card() error = %v", err)
	}
	if one.Text != persona.NarrativeFallback(one.ID) || one.ImageURL != "" {
		t.Errorf("Card() = %+v, want degraded card", one)
	}
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func(*Service) error
		wantErr error
	}{
		{"zero spread", func(s *Service) error { _, err := s.Reading(ctx, "q", 0); return err }, ErrInvalidSpread},
		{"negative spread", func(s *Service) error { _, err := s.Reading(ctx, "q", -2); return err }, ErrInvalidSpread},
		{"spread above bound", func(s *Service) error { _, err := s.Reading(ctx, "q", DefaultMaxSpread+1); return err }, ErrInvalidSpread},
		{"empty question", func(s *Service) error { _, err := s.Reading(ctx, "", 3); return err }, ErrInvalidQuestion},
		{"empty question for a card", func(s *Service) error { _, err := s.Card(ctx, "", 3, 0); return err }, ErrInvalidQuestion},
		{"bad spread before bad index", func(s *Service) error { _, err := s.CardText(ctx, "q", 0, 5); return err }, ErrInvalidSpread},
		{"index past spread", func(s *Service) error { _, err := s.CardText(ctx, "q", 3, 3); return err }, ErrCardNotFound},
		{"negative index", func(s *Service) error { _, err := s.CardImage(ctx, "q", 3, -1); return err }, ErrCardNotFound},
		{"image for unknown card", func(s *Service) error { _, err := s.Image(ctx, "The Intern"); return err }, ErrUnknownCard},
		{"image without card", func(s *Service) error { _, err := s.Image(ctx, ""); return err }, ErrUnknownCard},
		{"chat without question", func(s *Service) error {
			_, err := s.Chat(ctx, ChatInput{CardID: "The Sun"})
			return err
		}, ErrInvalidQuestion},
		{"chat about unknown card", func(s *Service) error {
			_, err := s.Chat(ctx, ChatInput{CardID: "The Intern", Question: "q"})
			return err
		}, ErrUnknownCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newFastMock()
			svc := newTestService(t, mock)

			err := tt.call(svc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !IsValidation(err) && !errors.Is(err, ErrCardNotFound) {
				t.Errorf("IsValidation(%v) = false", err)
			}
			if svc.Selector().Len() != 0 {
				t.Errorf("Len() = %d, want 0 after validation failure", svc.Selector().Len())
			}
			if mock.ChatCount()+mock.ImageCount() != 0 {
				t.Errorf("provider was called on a validation failure")
			}
		})
	}
}

func TestService_QuestionsAreExact(t *testing.T) {
	svc := newTestService(t, newFastMock())
	ctx := context.Background()

	for _, q := range []string{"  ", " ", "Love? "} {
		res, err := svc.Reading(ctx, q, 2)
		if err != nil {
			t.Fatalf("Reading(%q) error = %v", q, err)
		}
		if res.Question != q || len(res.Cards) != 2 {
			t.Errorf("Reading(%q) = %+v", q, res)
		}
	}
	if n := svc.Selector().Len(); n != 3 {
		t.Errorf("Len() = %d, want 3 distinct readings", n)
	}
}

func TestService_ImageAndChat(t *testing.T) {
	mock := newFastMock()
	svc := newTestService(t, mock)

	u, err := svc.Image(context.Background(), "The Star")
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if !strings.Contains(u, "The%20Star") {
		t.Errorf("Image() = %q", u)
	}
	if svc.Selector().Len() != 0 {
		t.Error("Image() should not create a reading")
	}

	text, err := svc.Chat(context.Background(), ChatInput{
		Question: "And the ex?",
		CardID:   "The Star",
		Prior:    []persona.PriorCard{{ID: "The Moon", Text: "secrets"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !strings.Contains(text, "Question: And the ex?") {
		t.Errorf("Chat() = %q", text)
	}
}
