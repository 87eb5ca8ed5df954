package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db             *gorm.DB
	blogPostRepo   *BlogPostRepo
	categoryRepo   *CategoryRepo
	tagRepo        *TagRepo
	authorRepo     *AuthorRepo
	mediaAssetRepo *MediaAssetRepo
	projectRepo    *ProjectRepo
	projectTagRepo *ProjectTagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		blogPostRepo:   NewBlogPostRepo(db),
		categoryRepo:   NewCategoryRepo(db),
		tagRepo:        NewTagRepo(db),
		authorRepo:     NewAuthorRepo(db),
		mediaAssetRepo: NewMediaAssetRepo(db),
		projectRepo:    NewProjectRepo(db),
		projectTagRepo: NewProjectTagRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) AuthorRepo() *AuthorRepo {
	return d.authorRepo
}

func (d Database) MediaAssetRepo() *MediaAssetRepo {
	return d.mediaAssetRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

// Ping checks that the primary connection is alive.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or alters the tables of every model.
func (d Database) Migrate() error {
	return d.db.AutoMigrate(models.All()...)
}

// Open connects to postgres at dsn and routes reads to the replica DSNs when any are given.
func Open(dsn string, replicaDSNs []string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if len(replicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
		for _, replicaDSN := range replicaDSNs {
			replicas = append(replicas, postgres.Open(replicaDSN))
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetConnMaxIdleTime(5 * time.Minute).
			SetMaxOpenConns(20))
		if err != nil {
			return nil, fmt.Errorf("error registering read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	}

	return db, nil
}
