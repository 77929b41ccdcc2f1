package models

import "time"

type ContentType string

const (
	ContentHomeDescription ContentType = "home_description"
	ContentNavigation      ContentType = "navigation"
	ContentFooter          ContentType = "footer"
	ContentPage            ContentType = "page"
)

func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentHomeDescription, ContentNavigation, ContentFooter, ContentPage:
		return ContentType(s), true
	}
	return "", false
}

// ContentEntry is one logical piece of site copy, keyed by a dotted path
// such as "home.description". Per-language values live in Translations.
type ContentEntry struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Key         string      `json:"key" gorm:"uniqueIndex;not null;size:255"`
	Type        ContentType `json:"type" gorm:"not null;size:30"`
	Description *string     `json:"description" gorm:"size:500"`

	Translations []Translation `json:"translations" gorm:"foreignKey:ContentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContentEntry) TableName() string {
	return "contents"
}

type Translation struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	ContentID uint     `json:"content_id" gorm:"not null;uniqueIndex:idx_content_language"`
	Language  Language `json:"language" gorm:"not null;size:5;uniqueIndex:idx_content_language"`
	Value     string   `json:"value" gorm:"not null;type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Translation) TableName() string {
	return "translations"
}
