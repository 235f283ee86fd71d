// Package deck provides the immutable tarot card catalog used for readings.
//
// The catalog is loaded once at startup, either from the embedded Rider-Waite
// definition or from a user supplied YAML/JSON file, and is read-only after
// that. Card identifiers are the card names.
package deck

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// MinCards is the smallest catalog the service will start with.
const MinCards = 2

var (
	// ErrTooFewCards is returned when a deck has fewer than MinCards entries.
	ErrTooFewCards = errors.New("deck has too few cards")
	// ErrDuplicateCard is returned when a deck lists the same card twice.
	ErrDuplicateCard = errors.New("deck has duplicate cards")
)

//go:embed cards.yaml
var defaultDeck []byte

// definitionSchema constrains deck documents before they are turned into a Catalog.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cards"],
  "properties": {
    "name": {"type": "string"},
    "cards": {
      "type": "array",
      "minItems": 2,
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

// Definition is the on-disk shape of a deck.
type Definition struct {
	Name  string   `yaml:"name" json:"name"`
	Cards []string `yaml:"cards" json:"cards"`
}

// Catalog is an ordered, immutable set of distinct card identifiers.
type Catalog struct {
	name  string
	cards []string
	index map[string]int
}

// New builds a catalog from the given identifiers.
// Identifiers are trimmed; empty entries, duplicates and decks smaller than
// MinCards are rejected.
func New(name string, cards []string) (*Catalog, error) {
	if len(cards) < MinCards {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrTooFewCards, len(cards), MinCards)
	}

	c := &Catalog{
		name:  name,
		cards: make([]string, 0, len(cards)),
		index: make(map[string]int, len(cards)),
	}
	for _, card := range cards {
		card = strings.TrimSpace(card)
		if card == "" {
			return nil, fmt.Errorf("deck %q contains an empty card name", name)
		}
		if _, dup := c.index[card]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCard, card)
		}
		c.index[card] = len(c.cards)
		c.cards = append(c.cards, card)
	}
	return c, nil
}

// Default returns the embedded 78-card Rider-Waite catalog.
func Default() *Catalog {
	c, err := Parse(defaultDeck)
	if err != nil {
		panic(fmt.Sprintf("embedded deck is invalid: %v", err))
	}
	return c
}

// Load reads a deck definition from path. An empty path yields the default deck.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML or JSON deck definition and validates it.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	if err := validateDefinition(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	return New(def.Name, def.Cards)
}

// validateDefinition checks a decoded document against definitionSchema.
// The document is round-tripped through JSON so the validator sees JSON types.
func validateDefinition(raw any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("deck.json", strings.NewReader(definitionSchema)); err != nil {
		return fmt.Errorf("failed to load deck schema: %w", err)
	}
	schema, err := compiler.Compile("deck.json")
	if err != nil {
		return fmt.Errorf("failed to compile deck schema: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode deck for validation: %w", err)
	}
	var doc any
	if err := json.NewDecoder(bytes.NewReader(encoded)).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode deck for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("deck does not match schema: %w", err)
	}
	return nil
}

// Name returns the deck name.
func (c *Catalog) Name() string { return c.name }

// Len returns the number of cards.
func (c *Catalog) Len() int { return len(c.cards) }

// At returns the card at position i.
func (c *Catalog) At(i int) string { return c.cards[i] }

// Contains reports whether id is a card in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Cards returns a copy of the card identifiers in catalog order.
func (c *Catalog) Cards() []string {
	out := make([]string, len(c.cards))
	copy(out, c.cards)
	return out
}
