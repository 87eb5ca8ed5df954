package models

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

The `generate` command migrates the schema, writes typed query code with gorm/gen
and prints a report of database columns that no model field maps to.

	portfolio-site generate --out ./generated

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: blog_posts ---
Found 1 columns not accounted for in model:
  - legacy_views

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// GenerateModels migrates every model and writes query code into outPath.
func GenerateModels(db *gorm.DB, outPath string, report io.Writer) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		MediaAsset{},
		Category{},
		Tag{},
		Author{},
		BlogPost{},
		Project{},
		ProjectTag{},
	)

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	if _, err := GenerateColumnMismatchReport(db, report); err != nil {
		return err
	}

	g.Execute()
	return nil
}

// GenerateColumnMismatchReport writes the per-table report and returns the
// unmapped columns keyed by table name.
func GenerateColumnMismatchReport(db *gorm.DB, out io.Writer) (map[string][]string, error) {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	cache := &sync.Map{}
	mismatchesByTable := make(map[string][]string)
	totalMismatches := 0

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("error parsing model %T: %w", model, err)
		}

		fmt.Fprintf(out, "\n--- Table: %s ---\n", s.Table)
		if !db.Migrator().HasTable(s.Table) {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error getting columns for table %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, columnType := range columnTypes {
			dbColumns = append(dbColumns, columnType.Name())
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		mismatchesByTable[s.Table] = mismatches
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return mismatchesByTable, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)

	return mismatches
}
