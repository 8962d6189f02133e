package models

// AnalysisModel caches a completed document analysis so repeated
// requests for the same document and language skip the model backend.
type AnalysisModel struct {
	Base
	Hash       string      `json:"hash"        gorm:"uniqueIndex;not null"` // hash(documentID + lang)
	DocumentID string      `json:"document_id" gorm:"index;not null"`
	Lang       string      `json:"lang"        gorm:"default:'en'"`
	Summary    string      `json:"summary"     gorm:"type:text;not null"`
	Risks      RiskSlice   `json:"risks"       gorm:"type:json;serializer:json"`
	Glossary   EntrySlice  `json:"glossary"    gorm:"type:json;serializer:json"`
	KeyDates   StringArray `json:"key_dates"   gorm:"type:json;serializer:json"`
}

func (AnalysisModel) TableName() string { return "analyses" }

// Risk is one flagged clause in a document.
type Risk struct {
	Clause      string `json:"clause"`
	Risk        string `json:"risk"`
	Explanation string `json:"explanation"`
}

// GlossaryEntry is one jargon term with its plain-language definition.
type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type RiskSlice []Risk

type EntrySlice []GlossaryEntry
