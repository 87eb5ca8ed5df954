package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// FindByProject returns the tags of one project
func (r *ProjectTagRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectTag, error) {
	var projectTags []models.ProjectTag
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("value ASC").Find(&projectTags).Error
	return projectTags, err
}

// ReplaceForProject swaps the project's tags for the given values, dropping blanks and duplicates
func (r *ProjectTagRepo) ReplaceForProject(ctx context.Context, projectID uuid.UUID, values []string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return err
	}

	tags := NewProjectTags(values)
	if len(tags) == 0 {
		return nil
	}
	for i := range tags {
		tags[i].ProjectID = projectID
	}
	return tx.Create(&tags).Error
}

// NewProjectTags builds tags from raw values, dropping blanks and duplicates
func NewProjectTags(values []string) []models.ProjectTag {
	seen := make(map[string]bool, len(values))
	tags := make([]models.ProjectTag, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		tags = append(tags, models.ProjectTag{Value: value})
	}
	return tags
}
