package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:150;not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;size:160;not null" json:"slug"`
	Summary     string         `gorm:"size:255" json:"summary"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	DemoURL     string         `gorm:"size:500" json:"demo_url"`
	RepoURL     string         `gorm:"size:500" json:"repo_url"`
	TechStack   datatypes.JSON `json:"tech_stack"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Skill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Category  string    `gorm:"size:50;index" json:"category"`
	Level     int       `gorm:"default:0" json:"level"` // 0-100
	Icon      string    `gorm:"size:100" json:"icon"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service is an offering shown on the landing page (e.g. "Web Development").
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Icon        string    `gorm:"size:100" json:"icon"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile is a singleton row holding the hero/about content.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100" json:"name"`
	Headline  string         `gorm:"size:150" json:"headline"`
	Bio       string         `gorm:"type:text" json:"bio"`
	AvatarURL string         `gorm:"size:500" json:"avatar_url"`
	ResumeURL string         `gorm:"size:500" json:"resume_url"`
	Email     string         `gorm:"size:100" json:"email"`
	Location  string         `gorm:"size:100" json:"location"`
	Socials   datatypes.JSON `json:"socials"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type SiteSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"size:1000" json:"value"`
	Group     string    `gorm:"size:50;index" json:"group"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Subject   string    `gorm:"size:150" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
