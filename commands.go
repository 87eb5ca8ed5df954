package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/rpupo63/portfolio-site/api"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/game"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/profile"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/web"
	"github.com/rpupo63/portfolio-site/web/cms"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDatabase(c map[string]string) (*gorm.DB, error) {
	dsn := config.GetString(c, "DATABASE_URL", "")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not defined")
	}
	db, err := database.Open(dsn, config.GetStrings(c, "DATABASE_REPLICA_URLS"))
	if err != nil {
		return nil, err
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

func newAPICmd(c map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run the Content API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			currentDB := database.New(db)

			if config.GetBool(c, "AUTO_MIGRATE", true) {
				if err := currentDB.Migrate(); err != nil {
					return fmt.Errorf("error migrating database: %w", err)
				}
			}

			var store api.MediaStore
			storage, err := services.NewMediaStorage(cmd.Context(), c)
			if err != nil {
				return err
			}
			if storage != nil {
				store = storage
			} else {
				log.Warn().Msg("MEDIA_BUCKET is not defined, uploads are disabled")
			}

			server, err := api.NewServer(currentDB, c, store)
			if err != nil {
				return fmt.Errorf("error initializing server: %w", err)
			}
			return serve(server)
		},
	}
}

func newWebCmd(c map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Run the presentation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			contentURL := config.GetFirstString(c, []string{"CONTENT_API_URL", "STRAPI_URL"}, "http://localhost:8080")

			var cache cms.Cache = cms.NewMemoryCache()
			if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
				redisCache, err := cms.NewRedisCache(ctx, redisURL)
				cancel()
				if err != nil {
					return err
				}
				defer redisCache.Close()
				cache = redisCache
			}
			client := cms.New(contentURL, config.GetSeconds(c, "CONTENT_API_TIMEOUT_SECONDS", 10), cache)

			p, err := profile.Load(config.GetString(c, "PROFILE_PATH", ""))
			if err != nil {
				return err
			}

			secret := []byte(config.GetString(c, "SESSION_SECRET", ""))
			if len(secret) == 0 {
				log.Warn().Msg("SESSION_SECRET is not defined, game sessions will not survive a restart")
				secret = securecookie.GenerateRandomKey(32)
			}
			store := game.NewSessionStore(secret, config.GetBool(c, "SESSION_SECURE", false))

			deps := web.Dependencies{
				Content:      client,
				Profile:      p,
				Sender:       services.NewContactMailer(c),
				Games:        game.NewRegistry(store, game.DefaultIdleTTL),
				MediaBaseURL: contentURL,
			}
			if notifier := services.NewSMSNotifier(c); notifier != nil {
				deps.Notifier = notifier
			}

			server, err := web.NewServer(c, deps)
			if err != nil {
				return fmt.Errorf("error initializing server: %w", err)
			}
			return serve(server)
		},
	}
}

func newMigrateCmd(c map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			if err := database.New(db).Migrate(); err != nil {
				return fmt.Errorf("error migrating database: %w", err)
			}
			log.Info().Msg("Database schema is up to date")
			return nil
		},
	}
}

func newGenerateCmd(c map[string]string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed query helpers and a column mismatch report",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(c)
			if err != nil {
				return err
			}
			return models.GenerateModels(db, outPath, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "./query", "directory for the generated query code")
	return cmd
}

func newTokenCmd(c map[string]string) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin token for the Content API write routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := api.IssueAdminToken(config.GetString(c, "ADMIN_JWT_SECRET", ""), subject, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "how long the token stays valid")
	return cmd
}
