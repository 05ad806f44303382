package documents

import (
	"path/filepath"
	"strings"
	"time"
)

type Category string

const (
	CategoryMedical   Category = "medical"
	CategoryInsurance Category = "insurance"
	CategoryLegal     Category = "legal"
	CategoryCare      Category = "care"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMedical, CategoryInsurance, CategoryLegal, CategoryCare, CategoryOther:
		return true
	}
	return false
}

// Kind es el tipo de archivo que muestra el listado (icono).
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindWord        Kind = "word"
	KindSpreadsheet Kind = "spreadsheet"
	KindImage       Kind = "image"
	KindOther       Kind = "other"
)

type Document struct {
	ID          string
	RecipientID string

	Name        string
	Category    Category
	Description string
	ContentType string
	SizeBytes   int64
	BlobKey     string

	UploadedBy     string
	UploadedByName string
	UploadedAt     time.Time
}

// Kind sale de la extensión del nombre.
func (d Document) Kind() Kind {
	switch strings.ToLower(filepath.Ext(d.Name)) {
	case ".pdf":
		return KindPDF
	case ".doc", ".docx", ".odt", ".rtf":
		return KindWord
	case ".xls", ".xlsx", ".ods", ".csv":
		return KindSpreadsheet
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".heic":
		return KindImage
	default:
		return KindOther
	}
}

// SizeLabel: "2.4 MB", "850 KB", "120 B".
func (d Document) SizeLabel() string {
	return formatSize(d.SizeBytes)
}
