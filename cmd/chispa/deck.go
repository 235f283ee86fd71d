package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/deck"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect card decks",
	Long: `Inspect card decks without a running server.

Decks are YAML or JSON files with a name and a list of distinct cards.
Bare names resolve to ~/.chispa/decks/<name>.yaml. Without a name the
built-in 78-card Rider-Waite deck is used.

Examples:
  chispa deck show                 # Built-in deck
  chispa deck show marseille       # ~/.chispa/decks/marseille.yaml
  chispa deck list                 # Decks in ~/.chispa/decks
  chispa deck validate ./my.yaml   # Check a deck file`,
}

// deckView is the CLI rendering of a catalog.
type deckView struct {
	Name  string   `json:"name" yaml:"name"`
	Total int      `json:"total" yaml:"total"`
	Cards []string `json:"cards" yaml:"cards"`
}

var deckShowCmd = &cobra.Command{
	Use:   "show [deck]",
	Short: "Print the cards of a deck",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		catalog, err := deck.Load(h.DeckPath(ref))
		if err != nil {
			return err
		}
		return api.Output(deckView{Name: catalog.Name(), Total: catalog.Len(), Cards: catalog.Cards()})
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks in the chispa home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		names, err := h.ListDecks()
		if err != nil {
			return err
		}
		if names == nil {
			names = []string{}
		}
		return api.Output(names)
	},
}

var deckValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a deck file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := deck.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: deck %q with %d cards is valid\n", args[0], catalog.Name(), catalog.Len())
		return nil
	},
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckValidateCmd)
	rootCmd.AddCommand(deckCmd)
}
