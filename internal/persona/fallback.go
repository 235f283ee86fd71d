package persona

import "fmt"

// Welcome is returned by the health endpoint.
const Welcome = "Welcome to Papi Chispa's Tarot API, mi amor! Ask me anything..."

// ShyText stands in for a narrative the provider returned empty.
const ShyText = "Papi Chispa is feeling a bit shy with the words right now, mi amor."

// ChatSilence stands in for an empty follow-up reply.
const ChatSilence = "Ay, Papi is caught in a dreamy silence..."

// NarrativeFallback is the degraded text for a card whose narrative failed.
func NarrativeFallback(card string) string {
	return fmt.Sprintf("Ay, the spirits went quiet! Papi Chispa can't quite channel %s right now, mi amor. Ask again in a moment.", card)
}

// NarrativeTimeout is the degraded text for a card whose narrative timed out.
func NarrativeTimeout(card string) string {
	return fmt.Sprintf("A mysterious silence from the spirits for %s...", card)
}

// Persona-flavored messages for HTTP error responses.
const (
	ProviderErrorMessage = "Ay, mi amor, the spirits are not answering right now. Try again in a moment."
	InternalErrorMessage = "Ay, cariño, something went wrong behind the velvet curtain."
)
