package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateColumns applies changes to the row of model with the given id.
func updateColumns(tx *gorm.DB, model any, id uint, changes map[string]any) error {
	if len(changes) == 0 {
		var count int64
		if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	result := tx.Model(model).Where("id = ?", id).Omit(clause.Associations).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteByID removes the row of model with the given id.
func deleteByID(tx *gorm.DB, model any, id uint) error {
	result := tx.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
