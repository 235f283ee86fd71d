package persona

import (
	"strings"
	"testing"
)

func TestNarrativeMessages(t *testing.T) {
	msgs := Papi.NarrativeMessages("The Tower", "Will I move?", 3, 1)

	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[1].Role != "user" {
		t.Fatalf("roles = %q/%q, want system/user", msgs[0].Role, msgs[1].Role)
	}
	want := "Card: The Tower (This is card 2 of a 3-card spread.)\nUser question: Will I move?\nRespond in Papi's style."
	if msgs[1].Content != want {
		t.Errorf("user prompt = %q, want %q", msgs[1].Content, want)
	}
	if !strings.HasPrefix(msgs[0].Content, "You are Papi Chispa") {
		t.Errorf("system prompt = %q", msgs[0].Content)
	}

	custom := Papi
	custom.NarrativeSystem = "You are a gruff sailor reading cards."
	if got := custom.NarrativeMessages("The Star", "q", 1, 0)[0].Content; got != custom.NarrativeSystem {
		t.Errorf("custom system prompt = %q", got)
	}
}

func TestIllustrationPrompt(t *testing.T) {
	got := Papi.IllustrationPrompt("The Star")

	if !strings.HasPrefix(got, "Tarot card illustration of The Star") {
		t.Errorf("prompt does not name the card: %q", got)
	}
	if !strings.Contains(got, "Cartas del Deseo") {
		t.Errorf("prompt missing aesthetic: %q", got)
	}
	if !strings.Contains(got, "scarlet, indigo") {
		t.Errorf("prompt missing palette: %q", got)
	}
}

func TestChatSystemPrompt(t *testing.T) {
	got := Papi.ChatSystemPrompt()

	for _, want := range []string{"Papi Chispa", "The Lover", "mi amor", "no unsafe code or advice"} {
		if !strings.Contains(got, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestChatMessages(t *testing.T) {
	t.Run("without context", func(t *testing.T) {
		msgs := Papi.ChatMessages("The Moon", "Is he lying?", nil, nil)
		if len(msgs) != 2 {
			t.Fatalf("len(msgs) = %d, want 2", len(msgs))
		}
		if !strings.Contains(msgs[1].Content, "The Moon") {
			t.Errorf("last message does not mention card: %q", msgs[1].Content)
		}
	})

	t.Run("with prior cards and history", func(t *testing.T) {
		prior := []PriorCard{{ID: "The Sun", Text: "warmth ahead"}}
		history := []ChatTurn{
			{Role: "user", Content: "tell me more", CardID: "The Sun"},
			{Role: "assistant", Content: "ay, the sun...", CardID: "The Sun"},
			{Role: "bogus", Content: "and now?", CardID: "The Moon"},
		}
		msgs := Papi.ChatMessages("The Moon", "Is he lying?", prior, history)

		if len(msgs) != 5 {
			t.Fatalf("len(msgs) = %d, want 5", len(msgs))
		}
		if !strings.Contains(msgs[0].Content, "- The Sun: warmth ahead") {
			t.Errorf("system prompt missing prior card: %q", msgs[0].Content)
		}
		if msgs[1].Content != "[about The Sun] tell me more" {
			t.Errorf("history[0] = %q", msgs[1].Content)
		}
		if msgs[2].Role != "assistant" {
			t.Errorf("history[1] role = %q, want assistant", msgs[2].Role)
		}
		if msgs[3].Role != "user" || msgs[3].Content != "and now?" {
			t.Errorf("history[2] = %+v, want user turn without card prefix", msgs[3])
		}
	})
}

func TestFallbacks(t *testing.T) {
	if got := NarrativeFallback("Death"); !strings.Contains(got, "Death") {
		t.Errorf("NarrativeFallback() = %q, want card name", got)
	}
	if got := NarrativeTimeout("Death"); !strings.Contains(got, "Death") {
		t.Errorf("NarrativeTimeout() = %q, want card name", got)
	}
}
