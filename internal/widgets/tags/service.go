package tags

import "context"

// TagService contains the business logic for the tag widget. It also
// satisfies the media plugin's TagLister interface.
type TagService interface {
	PopularTags(ctx context.Context, limit int) ([]Tag, error)
	PopularTagNames(ctx context.Context, limit int) ([]string, error)
	Autocomplete(ctx context.Context, term string, limit int) ([]string, error)
}

type tagService struct {
	repo TagRepository
}

// NewTagService creates a tag service backed by the given repository.
func NewTagService(repo TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) PopularTags(ctx context.Context, limit int) ([]Tag, error) {
	return s.repo.Popular(ctx, limit)
}

func (s *tagService) PopularTagNames(ctx context.Context, limit int) ([]string, error) {
	tags, err := s.repo.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names, nil
}

func (s *tagService) Autocomplete(ctx context.Context, term string, limit int) ([]string, error) {
	if term == "" {
		return []string{}, nil
	}
	return s.repo.Autocomplete(ctx, term, limit)
}
