package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch(t *testing.T) {
	assert.Len(t, Search(""), 5)
	assert.Len(t, Search("   "), 5)

	got := Search("MEDICATION")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "medication-reminders", got[0].ID)
	}

	// también busca en la respuesta
	got = Search("pdfs")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "upload-documents", got[0].ID)
	}

	assert.Empty(t, Search("insurance claims"))
}

func TestTopics_Copy(t *testing.T) {
	ts := Topics()
	ts[0].Title = "changed"
	assert.Equal(t, "Getting Started", Topics()[0].Title)
}
