package deck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Len() != 78 {
		t.Fatalf("Len() = %d, want 78", c.Len())
	}
	if c.At(0) != "The Fool" {
		t.Errorf("At(0) = %q, want %q", c.At(0), "The Fool")
	}
	if c.At(77) != "King of Pentacles" {
		t.Errorf("At(77) = %q, want %q", c.At(77), "King of Pentacles")
	}
	if !c.Contains("The Lovers") {
		t.Error("expected deck to contain The Lovers")
	}
	if c.Contains("The Joker") {
		t.Error("did not expect deck to contain The Joker")
	}
}

func TestCatalog_CardsIsCopy(t *testing.T) {
	c := Default()

	cards := c.Cards()
	cards[0] = "mutated"

	if c.At(0) != "The Fool" {
		t.Fatalf("catalog mutated through Cards(): At(0) = %q", c.At(0))
	}
}

func TestNew(t *testing.T) {
	t.Run("rejects too few cards", func(t *testing.T) {
		_, err := New("tiny", []string{"The Fool"})
		if !errors.Is(err, ErrTooFewCards) {
			t.Fatalf("New() error = %v, want ErrTooFewCards", err)
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New("dup", []string{"The Fool", "The Sun", "The Fool"})
		if !errors.Is(err, ErrDuplicateCard) {
			t.Fatalf("New() error = %v, want ErrDuplicateCard", err)
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		if _, err := New("blank", []string{"The Fool", "  "}); err == nil {
			t.Fatal("expected error for empty card name")
		}
	})

	t.Run("trims names", func(t *testing.T) {
		c, err := New("trim", []string{" The Fool ", "The Sun"})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if diff := cmp.Diff([]string{"The Fool", "The Sun"}, c.Cards()); diff != "" {
			t.Errorf("Cards() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		c, err := Parse([]byte("name: mini\ncards:\n  - The Sun\n  - The Moon\n  - The Star\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if c.Name() != "mini" || c.Len() != 3 {
			t.Errorf("got name=%q len=%d, want mini/3", c.Name(), c.Len())
		}
	})

	t.Run("json", func(t *testing.T) {
		c, err := Parse([]byte(`{"name":"pair","cards":["The Sun","The Moon"]}`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if c.Len() != 2 {
			t.Errorf("Len() = %d, want 2", c.Len())
		}
	})

	t.Run("schema violations", func(t *testing.T) {
		bad := map[string]string{
			"missing cards": "name: nothing\n",
			"single card":   "cards: [The Sun]\n",
			"non string":    "cards: [1, 2]\n",
			"duplicates":    "cards: [The Sun, The Sun]\n",
		}
		for name, doc := range bad {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Errorf("%s: expected error", name)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses default", func(t *testing.T) {
		c, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if c.Len() != 78 {
			t.Errorf("Len() = %d, want 78", c.Len())
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.yaml")
		if err := os.WriteFile(path, []byte("cards: [The Sun, The Moon]\n"), 0o644); err != nil {
			t.Fatalf("failed to write deck: %v", err)
		}
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if diff := cmp.Diff([]string{"The Sun", "The Moon"}, c.Cards()); diff != "" {
			t.Errorf("Cards() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
