//go:build ignore

// generate_schema writes internal/database/schema.sql from the embedded
// migrations. Run it from the repository root through go generate.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"fleet-go/internal/database"
	"fleet-go/internal/database/migrations"
)

const schemaQuery = `
SELECT sql FROM sqlite_master
WHERE type IN ('table', 'index')
  AND sql IS NOT NULL
  AND name NOT LIKE 'sqlite_%'
  AND tbl_name != 'schema_migrations'
ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, name`

func main() {
	out := flag.String("o", "internal/database/schema.sql", "output file")
	flag.Parse()

	schema, err := render()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, []byte(schema), 0644); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}
	fmt.Printf("wrote %s\n", *out)
}

func render() (string, error) {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return "", err
	}
	version, err := migrations.LatestVersion()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Generated from internal/database/migrations/files at version %d.\n", version)
	b.WriteString("-- Do not edit. Run 'go generate ./internal/database' after adding a migration.\n\n")
	if err := writeStatements(db, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeStatements(db *sql.DB, b *strings.Builder) error {
	rows, err := db.Query(schemaQuery)
	if err != nil {
		return fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return err
		}
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return rows.Err()
}
