package offering

import (
	"fmt"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
)

type ServiceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

func CreateService(in ServiceInput) (*models.Service, error) {
	s := models.Service{
		Title:       in.Title,
		Description: in.Description,
		Icon:        in.Icon,
		SortOrder:   in.SortOrder,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func ListServices() ([]models.Service, error) {
	var services []models.Service
	if err := database.DB.Order("sort_order ASC, id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func UpdateService(id uint, in ServiceInput) (*models.Service, error) {
	var s models.Service
	if err := database.DB.First(&s, id).Error; err != nil {
		return nil, err
	}

	s.Title = in.Title
	s.Description = in.Description
	s.Icon = in.Icon
	s.SortOrder = in.SortOrder

	if err := database.DB.Save(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteService(id uint) error {
	res := database.DB.Delete(&models.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service not found")
	}
	return nil
}
