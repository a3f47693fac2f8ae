package media

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/sanitize"
)

// MediaService contains the business logic for media assets.
type MediaService interface {
	// CreateFromUpload persists a validated upload form as a new asset:
	// writes the file, creates the record, and reindexes every search
	// backend before returning.
	CreateFromUpload(ctx context.Context, form *UploadForm, uploadedBy string) (*MediaAsset, error)

	// GetByID loads one asset with its tags.
	GetByID(ctx context.Context, id string) (*MediaAsset, error)

	// List returns one page of assets for a chooser query plus the total
	// match count.
	List(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error)

	// Search resolves search terms to ranked asset IDs via the primary
	// search backend.
	Search(ctx context.Context, terms string) ([]string, error)

	// UpdateTitle renames an asset and refreshes the search indexes.
	UpdateTitle(ctx context.Context, id, title string) (*MediaAsset, error)

	// Delete removes an asset's record and file.
	Delete(ctx context.Context, id string) error

	// Collections lists all collections for the chooser filter.
	Collections(ctx context.Context) ([]Collection, error)

	// Selection builds the selection summary for a chosen asset.
	Selection(asset *MediaAsset) SelectionResult
}

type mediaService struct {
	repo      AssetRepository
	backends  []SearchBackend
	mediaPath string
}

// NewMediaService creates a media service. backends must contain at least
// one search backend; the first is the query backend and all of them are
// updated on writes.
func NewMediaService(repo AssetRepository, backends []SearchBackend, mediaPath string) MediaService {
	return &mediaService{repo: repo, backends: backends, mediaPath: mediaPath}
}

func (s *mediaService) CreateFromUpload(ctx context.Context, form *UploadForm, uploadedBy string) (*MediaAsset, error) {
	title := sanitize.Plain(form.Title)
	tags := make([]string, 0, len(form.Tags()))
	for _, tag := range form.Tags() {
		tags = append(tags, sanitize.Plain(tag))
	}

	asset := &MediaAsset{
		ID:           uuid.NewString(),
		Title:        title,
		Type:         form.Slug,
		OriginalName: form.File.Filename,
		FileSize:     form.File.Size,
		Tags:         tags,
		UploadedBy:   uploadedBy,
		CreatedAt:    time.Now().UTC(),
	}
	if form.CollectionID != "" {
		cid := form.CollectionID
		asset.CollectionID = &cid
	}

	filename, err := s.writeFile(form, asset)
	if err != nil {
		return nil, err
	}
	asset.Filename = filename

	if err := s.repo.Create(ctx, asset); err != nil {
		// Best effort: don't leave the file orphaned on disk.
		_ = os.Remove(filepath.Join(s.mediaPath, filename))
		return nil, err
	}

	// Synchronous reindex. A search right after this response must find
	// the asset, so a failing backend fails the upload response too even
	// though the asset itself is already persisted.
	for _, backend := range s.backends {
		if err := backend.Add(ctx, asset); err != nil {
			return nil, err
		}
	}

	slog.Info("media asset uploaded",
		"id", asset.ID,
		"type", asset.Type,
		"size", asset.FileSize,
		"uploaded_by", uploadedBy,
	)
	return asset, nil
}

// writeFile stores the upload under <mediaPath>/<type>/<year>/<id><ext> and
// returns the path relative to the media root.
func (s *mediaService) writeFile(form *UploadForm, asset *MediaAsset) (string, error) {
	src, err := form.File.Open()
	if err != nil {
		return "", apperror.NewInternal("failed to open upload", err)
	}
	defer src.Close()

	relDir := filepath.Join(asset.Type, asset.CreatedAt.Format("2006"))
	if err := os.MkdirAll(filepath.Join(s.mediaPath, relDir), 0o755); err != nil {
		return "", apperror.NewInternal("failed to create media directory", err)
	}

	relPath := filepath.Join(relDir, asset.ID+asset.Extension())
	dst, err := os.Create(filepath.Join(s.mediaPath, relPath))
	if err != nil {
		return "", apperror.NewInternal("failed to create media file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filepath.Join(s.mediaPath, relPath))
		return "", apperror.NewInternal("failed to write media file", err)
	}
	return relPath, nil
}

func (s *mediaService) GetByID(ctx context.Context, id string) (*MediaAsset, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *mediaService) List(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
	return s.repo.List(ctx, q, opts)
}

func (s *mediaService) Search(ctx context.Context, terms string) ([]string, error) {
	return s.backends[0].Search(ctx, terms)
}

func (s *mediaService) UpdateTitle(ctx context.Context, id, title string) (*MediaAsset, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	asset.Title = sanitize.Plain(title)
	if err := s.repo.UpdateTitle(ctx, id, asset.Title); err != nil {
		return nil, err
	}
	for _, backend := range s.backends {
		if err := backend.Add(ctx, asset); err != nil {
			return nil, err
		}
	}
	return asset, nil
}

func (s *mediaService) Delete(ctx context.Context, id string) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.mediaPath, asset.Filename)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove media file", "id", id, "error", err)
	}
	slog.Info("media asset deleted", "id", id, "type", asset.Type)
	return nil
}

func (s *mediaService) Collections(ctx context.Context) ([]Collection, error) {
	return s.repo.ListCollections(ctx)
}

func (s *mediaService) Selection(asset *MediaAsset) SelectionResult {
	return SelectionResult{
		ID:      asset.ID,
		Title:   asset.Title,
		EditURL: EditURL(asset.ID),
	}
}
