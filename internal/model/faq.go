// Package model defines the Go structs mapped to the backing stores.
package model

import "time"

// FAQ corresponds to the 'faqs' table: one answerable question, grouped into
// a free-text category. MediaURL optionally points at a supporting image.
type FAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Question  string    `gorm:"type:varchar(500);not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	MediaURL  string    `gorm:"type:varchar(500)" json:"mediaUrl,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table backing this model.
func (FAQ) TableName() string {
	return "faqs"
}

// FAQDocument is the shape of a FAQ in the Elasticsearch index used for
// free-text ask.
type FAQDocument struct {
	FAQID    string `json:"faq_id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	MediaURL string `json:"media_url,omitempty"`
}
