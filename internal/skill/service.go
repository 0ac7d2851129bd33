package skill

import (
	"fmt"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
)

type SkillInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
}

func CreateSkill(in SkillInput) (*models.Skill, error) {
	if in.Level < 0 || in.Level > 100 {
		return nil, fmt.Errorf("level must be between 0 and 100")
	}

	s := models.Skill{
		Name:      in.Name,
		Category:  in.Category,
		Level:     in.Level,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSkills returns skills grouped-ready: ordered by category then sort order.
func ListSkills(category string) ([]models.Skill, error) {
	var skills []models.Skill
	query := database.DB.Order("category ASC, sort_order ASC, name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func UpdateSkill(id uint, in SkillInput) (*models.Skill, error) {
	if in.Level < 0 || in.Level > 100 {
		return nil, fmt.Errorf("level must be between 0 and 100")
	}

	var s models.Skill
	if err := database.DB.First(&s, id).Error; err != nil {
		return nil, err
	}

	s.Name = in.Name
	s.Category = in.Category
	s.Level = in.Level
	s.Icon = in.Icon
	s.SortOrder = in.SortOrder

	if err := database.DB.Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteSkill(id uint) error {
	res := database.DB.Delete(&models.Skill{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("skill not found")
	}
	return nil
}
