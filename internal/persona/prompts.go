package persona

import (
	"fmt"
	"strings"
)

// Generation parameters for card narratives and follow-up chat.
const (
	NarrativeMaxTokens   = 350
	NarrativeTemperature = 0.9
	ChatMaxTokens        = 350
	ChatTemperature      = 0.92
)

// Message is a provider-agnostic chat turn.
type Message struct {
	Role    string
	Content string
}

// NarrativeMessages builds the prompt for the narrative of card index (0-based)
// in a spread of the given size.
func (p Persona) NarrativeMessages(card, question string, spread, index int) []Message {
	user := fmt.Sprintf("Card: %s (This is card %d of a %d-card spread.)\nUser question: %s\nRespond in Papi's style.",
		card, index+1, spread, question)
	return []Message{
		{Role: "system", Content: p.NarrativeSystem},
		{Role: "user", Content: user},
	}
}

// IllustrationPrompt builds the image prompt for a card.
func (p Persona) IllustrationPrompt(card string) string {
	return fmt.Sprintf("Tarot card illustration of %s in neon retro Latino style.\n%s", card, p.ImageStyleGuide())
}

// PriorCard is a card already revealed earlier in the conversation.
type PriorCard struct {
	ID   string
	Text string
}

// ChatTurn is one message of an earlier follow-up exchange.
type ChatTurn struct {
	Role    string
	Content string
	CardID  string
}

// ChatMessages builds the follow-up conversation about card. Earlier cards
// and chat turns are replayed so the reader keeps the thread.
func (p Persona) ChatMessages(card, question string, prior []PriorCard, history []ChatTurn) []Message {
	system := p.ChatSystemPrompt() + "\n\nRespond in Spanglish. Make each message a velvet confession."
	if len(prior) > 0 {
		var b strings.Builder
		b.WriteString("\n\nCards already revealed in this reading:")
		for _, pc := range prior {
			fmt.Fprintf(&b, "\n- %s: %s", pc.ID, pc.Text)
		}
		system += b.String()
	}

	msgs := []Message{{Role: "system", Content: system}}
	for _, turn := range history {
		role := turn.Role
		if role != "assistant" {
			role = "user"
		}
		content := turn.Content
		if turn.CardID != "" && turn.CardID != card {
			content = fmt.Sprintf("[about %s] %s", turn.CardID, content)
		}
		msgs = append(msgs, Message{Role: role, Content: content})
	}
	msgs = append(msgs, Message{
		Role:    "user",
		Content: fmt.Sprintf("Card: %s\nQuestion: %s", card, question),
	})
	return msgs
}
