package models

// Document statuses track a file from upload through normalization.
const (
	DocumentStatusUploaded   = "uploaded"
	DocumentStatusNormalized = "normalized"
	DocumentStatusFailed     = "failed"
)

// DocumentModel records an uploaded document and where its normalized
// form lives in the blob store.
type DocumentModel struct {
	Base
	Filename    string `json:"filename"     gorm:"not null"`
	ContentType string `json:"content_type" gorm:"not null"`
	Category    string `json:"category"     gorm:"index;default:'Other'"`
	// StoragePath is the canonical locator of the normalized text blob.
	StoragePath string `json:"storage_path" gorm:"not null"`
	// RawPath is the locator of the original upload before normalization.
	RawPath   string `json:"raw_path"`
	Status    string `json:"status"     gorm:"index;default:'uploaded'"`
	SubjectID string `json:"subject_id" gorm:"index;not null"`
	SizeBytes int64  `json:"size_bytes"`
}

func (DocumentModel) TableName() string { return "documents" }

// DocumentCategories are the accepted values for DocumentModel.Category.
var DocumentCategories = []string{"Bank", "Health", "School/College", "Government", "Other"}

// ValidCategory reports whether c is a known document category.
func ValidCategory(c string) bool {
	for _, v := range DocumentCategories {
		if v == c {
			return true
		}
	}
	return false
}
