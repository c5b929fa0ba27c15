package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloo-solutions/docsearch/internal/logging"
)

const (
	colorAccent = "154"
	colorGray   = "245"
	colorDim    = "240"
)

// resultStyles styles the text output of search.
type resultStyles struct {
	Title lipgloss.Style
	Score lipgloss.Style
	Label lipgloss.Style
	ID    lipgloss.Style
}

func coloredStyles() resultStyles {
	return resultStyles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Score: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		ID:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)),
	}
}

func plainStyles() resultStyles {
	return resultStyles{
		Title: lipgloss.NewStyle(),
		Score: lipgloss.NewStyle(),
		Label: lipgloss.NewStyle(),
		ID:    lipgloss.NewStyle(),
	}
}

// stylesFor colors output only for terminals, and never when NO_COLOR is set.
func stylesFor(w io.Writer) resultStyles {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor || !logging.IsTTY(w) {
		return plainStyles()
	}
	return coloredStyles()
}
