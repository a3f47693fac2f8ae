package media

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/curiocms/curio/internal/apperror"
)

// AssetRepository defines the data access contract for media assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *MediaAsset) error
	FindByID(ctx context.Context, id string) (*MediaAsset, error)
	List(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error)
	UpdateTitle(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	ListCollections(ctx context.Context) ([]Collection, error)
}

type mariaDBAssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a MariaDB-backed asset repository.
func NewAssetRepository(db *sql.DB) AssetRepository {
	return &mariaDBAssetRepository{db: db}
}

const assetColumns = "m.id, m.title, m.type, m.filename, m.original_name, m.file_size, m.collection_id, m.uploaded_by, m.created_at"

func (r *mariaDBAssetRepository) Create(ctx context.Context, asset *MediaAsset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewInternal("failed to start transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO media_assets (id, title, type, filename, original_name, file_size, collection_id, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.Title, asset.Type, asset.Filename, asset.OriginalName,
		asset.FileSize, asset.CollectionID, asset.UploadedBy, asset.CreatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to create media asset", err)
	}

	for _, tag := range asset.Tags {
		if err := attachTag(ctx, tx, asset.ID, tag); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewInternal("failed to commit media asset", err)
	}
	return nil
}

// attachTag links an asset to a tag, creating the tag row if needed. Tag
// names are already sanitized by the service layer.
func attachTag(ctx context.Context, tx *sql.Tx, assetID, name string) error {
	var tagID string
	err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
	if errors.Is(err, sql.ErrNoRows) {
		tagID = uuid.NewString()
		_, err = tx.ExecContext(ctx, "INSERT INTO tags (id, name) VALUES (?, ?)", tagID, name)
	}
	if err != nil {
		return apperror.NewInternal("failed to upsert tag", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT IGNORE INTO media_tags (media_id, tag_id) VALUES (?, ?)", assetID, tagID)
	if err != nil {
		return apperror.NewInternal("failed to attach tag", err)
	}
	return nil
}

func (r *mariaDBAssetRepository) FindByID(ctx context.Context, id string) (*MediaAsset, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM media_assets m WHERE m.id = ?", id)

	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("media asset not found")
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to load media asset", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT t.name FROM tags t
		JOIN media_tags mt ON mt.tag_id = t.id
		WHERE mt.media_id = ?
		ORDER BY t.name`, id)
	if err != nil {
		return nil, apperror.NewInternal("failed to load asset tags", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperror.NewInternal("failed to scan tag", err)
		}
		asset.Tags = append(asset.Tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to read tags", err)
	}
	return asset, nil
}

// List returns one page of assets matching the query plus the total match
// count. Search result order (ORDER BY FIELD over SearchIDs) takes
// precedence over any column ordering.
func (r *mariaDBAssetRepository) List(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
	if q.None || (q.Searching && len(q.SearchIDs) == 0) {
		return []MediaAsset{}, 0, nil
	}

	where, args := buildAssetFilter(q)

	var total int
	countQuery := "SELECT COUNT(DISTINCT m.id) FROM media_assets m" + tagJoin(q) + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewInternal("failed to count media assets", err)
	}

	order, orderArgs := orderClause(q)
	query := "SELECT DISTINCT " + assetColumns + " FROM media_assets m" + tagJoin(q) + where +
		order + " LIMIT ? OFFSET ?"
	args = append(args, orderArgs...)
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.NewInternal("failed to list media assets", err)
	}
	defer rows.Close()

	assets := []MediaAsset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, apperror.NewInternal("failed to scan media asset", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewInternal("failed to read media assets", err)
	}
	return assets, total, nil
}

// UpdateTitle changes an asset's title. Existence is checked by the caller
// (MariaDB reports zero affected rows for no-op updates, so RowsAffected
// can't distinguish "missing" from "unchanged").
func (r *mariaDBAssetRepository) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE media_assets SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return apperror.NewInternal("failed to update media asset", err)
	}
	return nil
}

func (r *mariaDBAssetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM media_assets WHERE id = ?", id)
	if err != nil {
		return apperror.NewInternal("failed to delete media asset", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("media asset not found")
	}
	return nil
}

func (r *mariaDBAssetRepository) ListCollections(ctx context.Context) ([]Collection, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM collections ORDER BY name")
	if err != nil {
		return nil, apperror.NewInternal("failed to list collections", err)
	}
	defer rows.Close()

	collections := []Collection{}
	for rows.Next() {
		var col Collection
		if err := rows.Scan(&col.ID, &col.Name); err != nil {
			return nil, apperror.NewInternal("failed to scan collection", err)
		}
		collections = append(collections, col)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("failed to read collections", err)
	}
	return collections, nil
}

// --- query assembly ---

func buildAssetFilter(q ChooserQuery) (string, []any) {
	conds := []string{}
	args := []any{}

	if q.UploaderID != "" {
		conds = append(conds, "m.uploaded_by = ?")
		args = append(args, q.UploaderID)
	}
	if q.Type != "" {
		conds = append(conds, "m.type = ?")
		args = append(args, q.Type)
	}
	if q.CollectionID != "" {
		conds = append(conds, "m.collection_id = ?")
		args = append(args, q.CollectionID)
	}
	if !q.Searching && q.Tag != "" {
		conds = append(conds, "t.name = ?")
		args = append(args, q.Tag)
	}
	if q.Searching {
		placeholders := strings.Repeat("?,", len(q.SearchIDs))
		conds = append(conds, "m.id IN ("+placeholders[:len(placeholders)-1]+")")
		for _, id := range q.SearchIDs {
			args = append(args, id)
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func tagJoin(q ChooserQuery) string {
	if q.Searching || q.Tag == "" {
		return ""
	}
	return " JOIN media_tags mt ON mt.media_id = m.id JOIN tags t ON t.id = mt.tag_id"
}

func orderClause(q ChooserQuery) (string, []any) {
	if q.Searching {
		// Preserve the backend's relevance ranking.
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.SearchIDs)), ",")
		args := make([]any, len(q.SearchIDs))
		for i, id := range q.SearchIDs {
			args[i] = id
		}
		return " ORDER BY FIELD(m.id, " + placeholders + ")", args
	}
	switch q.Ordering {
	case OrderTitleAsc:
		return " ORDER BY m.title ASC", nil
	case OrderTitleDesc:
		return " ORDER BY m.title DESC", nil
	case OrderCreatedAsc:
		return " ORDER BY m.created_at ASC", nil
	default:
		return " ORDER BY m.created_at DESC", nil
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*MediaAsset, error) {
	var asset MediaAsset
	err := row.Scan(&asset.ID, &asset.Title, &asset.Type, &asset.Filename,
		&asset.OriginalName, &asset.FileSize, &asset.CollectionID,
		&asset.UploadedBy, &asset.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &asset, nil
}
