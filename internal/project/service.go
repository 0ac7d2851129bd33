package project

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
)

// Rich-text project descriptions come from the admin editor; sanitize anyway
// so a compromised admin token cannot plant scripts on the public site.
var sanitizer = bluemonday.UGCPolicy()

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

type ProjectInput struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	DemoURL     string   `json:"demo_url"`
	RepoURL     string   `json:"repo_url"`
	TechStack   []string `json:"tech_stack"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sort_order"`
}

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func CreateProject(in ProjectInput) (*models.Project, error) {
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}

	var existing models.Project
	if err := database.DB.Where("slug = ?", in.Slug).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("slug already in use")
	}

	tech, _ := json.Marshal(in.TechStack)
	p := models.Project{
		Title:       in.Title,
		Slug:        in.Slug,
		Summary:     in.Summary,
		Description: sanitizer.Sanitize(in.Description),
		ImageURL:    in.ImageURL,
		DemoURL:     in.DemoURL,
		RepoURL:     in.RepoURL,
		TechStack:   datatypes.JSON(tech),
		Featured:    in.Featured,
		SortOrder:   in.SortOrder,
	}

	if err := database.DB.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func ListProjects(featuredOnly bool) ([]models.Project, error) {
	var projects []models.Project
	query := database.DB.Order("sort_order ASC, created_at DESC")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func GetProjectBySlug(slug string) (*models.Project, error) {
	var p models.Project
	if err := database.DB.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProject(id uint, in ProjectInput) (*models.Project, error) {
	var p models.Project
	if err := database.DB.First(&p, id).Error; err != nil {
		return nil, err
	}

	if in.Slug != "" && in.Slug != p.Slug {
		var existing models.Project
		if err := database.DB.Where("slug = ? AND id <> ?", in.Slug, id).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("slug already in use")
		}
		p.Slug = in.Slug
	}

	p.Title = in.Title
	p.Summary = in.Summary
	p.Description = sanitizer.Sanitize(in.Description)
	p.ImageURL = in.ImageURL
	p.DemoURL = in.DemoURL
	p.RepoURL = in.RepoURL
	p.Featured = in.Featured
	p.SortOrder = in.SortOrder
	if in.TechStack != nil {
		tech, _ := json.Marshal(in.TechStack)
		p.TechStack = datatypes.JSON(tech)
	}

	if err := database.DB.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func DeleteProject(id uint) error {
	res := database.DB.Delete(&models.Project{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}
