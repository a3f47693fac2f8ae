package tags

import (
	"context"
	"database/sql"

	"github.com/curiocms/curio/internal/apperror"
)

// TagRepository defines the data access contract for tags.
type TagRepository interface {
	// Popular returns the most-used tags, busiest first.
	Popular(ctx context.Context, limit int) ([]Tag, error)

	// Autocomplete returns tag names starting with the prefix.
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
}

type mariaDBTagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a MariaDB-backed tag repository.
func NewTagRepository(db *sql.DB) TagRepository {
	return &mariaDBTagRepository{db: db}
}

func (r *mariaDBTagRepository) Popular(ctx context.Context, limit int) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, COUNT(mt.media_id) AS uses
		FROM tags t
		JOIN media_tags mt ON mt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY uses DESC, t.name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, apperror.NewInternal("failed to load popular tags", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Count); err != nil {
			return nil, apperror.NewInternal("failed to scan tag", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to read tags", err)
	}
	return tags, nil
}

func (r *mariaDBTagRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM tags
		WHERE name LIKE ?
		ORDER BY name
		LIMIT ?`, prefix+"%", limit)
	if err != nil {
		return nil, apperror.NewInternal("tag autocomplete failed", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperror.NewInternal("failed to scan tag name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to read tag names", err)
	}
	return names, nil
}
