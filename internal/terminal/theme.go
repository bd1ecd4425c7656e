package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/edvik/inkwell/internal/annotate"
	"github.com/edvik/inkwell/internal/config"
)

// Theme maps annotation kinds and chrome surfaces to tcell styles.
type Theme struct {
	Match         tcell.Style
	SelectedMatch tcell.Style
	Status        tcell.Style
}

// NewTheme resolves configured color names. Unknown names fall back to the
// terminal default for that side of the style, never to an error.
func NewTheme(c config.Theme) Theme {
	return Theme{
		Match:         styleOf(c.MatchFG, c.MatchBG),
		SelectedMatch: styleOf(c.SelectedMatchFG, c.SelectedMatchBG),
		Status:        styleOf(c.StatusFG, c.StatusBG),
	}
}

func styleOf(fg, bg string) tcell.Style {
	s := tcell.StyleDefault
	if c := tcell.GetColor(fg); c != tcell.ColorDefault {
		s = s.Foreground(c)
	}
	if c := tcell.GetColor(bg); c != tcell.ColorDefault {
		s = s.Background(c)
	}
	return s
}

// StyleFor returns the style for one annotation kind.
func (t Theme) StyleFor(typ annotate.Type) tcell.Style {
	switch typ {
	case annotate.TypeMatch:
		return t.Match
	case annotate.TypeSelectedMatch:
		return t.SelectedMatch
	}
	return tcell.StyleDefault
}
