package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Kind(t *testing.T) {
	tests := map[string]Kind{
		"Medical History Summary.pdf": KindPDF,
		"Medication Schedule.docx":    KindWord,
		"budget.XLSX":                 KindSpreadsheet,
		"xray.jpeg":                   KindImage,
		"notes":                       KindOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, Document{Name: name}.Kind(), name)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "120 B", formatSize(120))
	assert.Equal(t, "850 KB", formatSize(850<<10))
	assert.Equal(t, "2.4 MB", formatSize(2516582))
}
