package settings

import (
	"sort"

	"github.com/danuarta/portfolio/internal/database"
	"github.com/danuarta/portfolio/internal/models"
	"github.com/danuarta/portfolio/internal/security"
	"gorm.io/gorm/clause"
)

var audit *security.AuditService

func Setup(a *security.AuditService) {
	audit = a
}

func ListSettings(group string) ([]models.SiteSetting, error) {
	var rows []models.SiteSetting
	query := database.DB.Order("\"group\" ASC, key ASC")
	if group != "" {
		query = query.Where("\"group\" = ?", group)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertSettings writes a batch of key/value pairs and returns the keys that
// changed, sorted for a stable audit payload.
func UpsertSettings(group string, values map[string]string) ([]string, error) {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "group", "updated_at"}),
		}).Create(&models.SiteSetting{
			Key:   key,
			Value: value,
			Group: group,
		}).Error
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func DeleteSetting(key string) error {
	return database.DB.Where("key = ?", key).Delete(&models.SiteSetting{}).Error
}
