package models

// FAQModel is a curated question and answer shown on the help page.
type FAQModel struct {
	Base
	Question string `json:"question" gorm:"not null"`
	Answer   string `json:"answer"   gorm:"type:text;not null"`
	Order    int    `json:"order"    gorm:"index;default:0"`
}

func (FAQModel) TableName() string { return "faqs" }
