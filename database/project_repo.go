package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func orderedTags(tx *gorm.DB) *gorm.DB {
	return tx.Order("project_tags.value ASC")
}

// FindAll returns all projects in display order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Preload("Tags", orderedTags).
		Order("position ASC").
		Order("title ASC").
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when absent
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Preload("Tags", orderedTags).Where("id = ?", id).Limit(1).Find(&projects).Error
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	return &projects[0], nil
}

// Add inserts a new project together with its tags
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update saves the project's columns and replaces its tags with the given values
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project, tagValues []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(project).Omit(clause.Associations).
			Select("title", "description", "github_link", "demo_link", "type", "image", "position").
			Updates(project)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return NewProjectTagRepo(tx).ReplaceForProject(ctx, project.ID, tagValues)
	})
}

// Delete removes a project by id; its tags cascade
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
