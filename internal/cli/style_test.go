package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylesFor_PlainWhenNotTTY(t *testing.T) {
	st := stylesFor(&bytes.Buffer{})
	assert.Equal(t, "Configure", st.Title.Render("Configure"))
	assert.Equal(t, "ID: docs/a#b", st.ID.Render("ID: docs/a#b"))
}

func TestStylesFor_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	st := stylesFor(&bytes.Buffer{})
	assert.Equal(t, "(0.50)", st.Score.Render("(0.50)"))
}
