package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1", FormatNumber(1))
	assert.Equal(t, "12", FormatNumber(12))
	assert.Equal(t, "1.5", FormatNumber(1.5))
}

func TestDeriveAbbreviation(t *testing.T) {
	t.Run("appends number to parent abbreviation", func(t *testing.T) {
		assert.Equal(t, "GR.1", DeriveAbbreviation("GR", 1))
		assert.Equal(t, "GR.1.2", DeriveAbbreviation("GR.1", 2))
	})

	t.Run("empty parent abbreviation yields empty result", func(t *testing.T) {
		assert.Equal(t, "", DeriveAbbreviation("", 3))
	})
}

func TestReplaceLastSegment(t *testing.T) {
	t.Run("only the trailing segment changes", func(t *testing.T) {
		assert.Equal(t, "GR.1.2.9", ReplaceLastSegment("GR.1.2.3", "9"))
	})

	t.Run("preserves manually edited upstream segments", func(t *testing.T) {
		assert.Equal(t, "CUSTOM.x.7", ReplaceLastSegment("CUSTOM.x.3", "7"))
	})

	t.Run("path without dot is replaced whole", func(t *testing.T) {
		assert.Equal(t, "4", ReplaceLastSegment("3", "4"))
	})

	t.Run("empty path stays empty", func(t *testing.T) {
		assert.Equal(t, "", ReplaceLastSegment("", "4"))
	})
}
