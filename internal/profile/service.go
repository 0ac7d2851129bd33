package profile

import (
	"encoding/json"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var audit *security.AuditService

func Setup(a *security.AuditService) {
	audit = a
}

var bioSanitizer = bluemonday.UGCPolicy()

type ProfileInput struct {
	Name      string            `json:"name"`
	Headline  string            `json:"headline"`
	Bio       string            `json:"bio"`
	AvatarURL string            `json:"avatar_url"`
	ResumeURL string            `json:"resume_url"`
	Email     string            `json:"email"`
	Location  string            `json:"location"`
	Socials   map[string]string `json:"socials"`
}

// GetProfile returns the singleton row, creating an empty one on first read
// so the public endpoint never 404s.
func GetProfile() (*models.Profile, error) {
	var p models.Profile
	err := database.DB.First(&p).Error
	if err == gorm.ErrRecordNotFound {
		p = models.Profile{}
		if err := database.DB.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProfile(in ProfileInput) (*models.Profile, error) {
	p, err := GetProfile()
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Headline = in.Headline
	p.Bio = bioSanitizer.Sanitize(in.Bio)
	p.AvatarURL = in.AvatarURL
	p.ResumeURL = in.ResumeURL
	p.Email = in.Email
	p.Location = in.Location
	if in.Socials != nil {
		socials, _ := json.Marshal(in.Socials)
		p.Socials = datatypes.JSON(socials)
	}

	if err := database.DB.Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}
