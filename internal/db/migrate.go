package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// ApplyMigrations executes every .sql file under root in lexical order.
// Statements are split on ';', so files must not contain semicolons inside literals.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, root string) error {
	files, err := WalkFS(fsys, root)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, path := range files {
		content, readErr := fs.ReadFile(fsys, path)
		if readErr != nil {
			return readErr
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, execErr := pool.Exec(ctx, stmt); execErr != nil {
				return fmt.Errorf("exec %s: %w", path, execErr)
			}
		}
	}
	return nil
}

// WalkFS lists the .sql files below root, sorted by path.
func WalkFS(fsys fs.FS, root string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func SplitStatements(content string) []string {
	var out []string
	for _, stmt := range strings.Split(content, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
