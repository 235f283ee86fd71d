package endpoints

import (
	"fmt"
	"io"
	"strings"

	"github.com/vitea/chispa/internal/reading"
)

// readingView is a reading as printed by `chispa api reading new`.
type readingView reading.Reading

func (v readingView) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%q (%d cards)\n", v.Question, v.Spread); err != nil {
		return err
	}
	for i, c := range v.Cards {
		if err := (cardView{Index: i, ID: c.ID, Text: c.Text, ImageURL: c.ImageURL}).RenderText(w); err != nil {
			return err
		}
	}
	return nil
}

// cardView is one card as printed by the single-card commands. Index is
// filled in by the CLI; the server doesn't send it.
type cardView struct {
	Index    int    `json:"-"`
	ID       string `json:"id"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func (v cardView) RenderText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%d] %s\n", v.Index+1, v.ID)
	if v.Text != "" {
		fmt.Fprintf(&b, "%s\n", v.Text)
	}
	if v.ImageURL != "" {
		fmt.Fprintf(&b, "  image: %s\n", v.ImageURL)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r ChatResponse) RenderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Text)
	return err
}

func (r ImageResponse) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %s\n", r.ID, r.ImageURL)
	return err
}

func (r DeckResponse) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s (%d cards)\n", r.Name, r.Total); err != nil {
		return err
	}
	for i, c := range r.Cards {
		if _, err := fmt.Fprintf(w, "%3d  %s\n", i+1, c); err != nil {
			return err
		}
	}
	return nil
}
