// Package catalog holds badge definitions and renders their public
// BadgeClass documents.
package catalog

import (
	"context"
	"fmt"

	"badgehub/internal/domain"
	"badgehub/internal/imaging"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

type Service struct {
	badges   storage.BadgeStore
	criteria storage.CriterionStore
	media    storage.MediaStore
	base     domain.BaseURL
}

func NewService(badges storage.BadgeStore, criteria storage.CriterionStore, media storage.MediaStore, base domain.BaseURL) *Service {
	return &Service{badges: badges, criteria: criteria, media: media, base: base}
}

// CreateBadgeInput carries an administrative badge definition. Image is the
// raw PNG upload.
type CreateBadgeInput struct {
	Title       string
	Description string
	Slug        string
	Criteria    string
	Image       []byte
	Alignments  []domain.Alignment
	Tags        []string
}

// CreateBadge validates and stores a badge definition together with its
// reference image.
func (s *Service) CreateBadge(ctx context.Context, input CreateBadgeInput) (domain.Badge, error) {
	if input.Title == "" || input.Slug == "" {
		return domain.Badge{}, dErrors.New(dErrors.CodeValidation, "badge title and slug are required")
	}
	if err := imaging.ValidatePNG(input.Image); err != nil {
		return domain.Badge{}, err
	}

	imageName := fmt.Sprintf("badges/%s.png", input.Slug)
	if err := s.media.Put(ctx, imageName, input.Image); err != nil {
		return domain.Badge{}, dErrors.Wrap(dErrors.CodeInternal, "store badge image", err)
	}

	badge, err := s.badges.Create(ctx, domain.Badge{
		Title:       input.Title,
		Description: input.Description,
		Slug:        input.Slug,
		Criteria:    input.Criteria,
		ImageName:   imageName,
		Alignments:  input.Alignments,
		Tags:        input.Tags,
	})
	if err != nil {
		return domain.Badge{}, err
	}
	return badge, nil
}

// GetBySlug resolves a badge definition by its public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Badge, error) {
	return s.badges.FindBySlug(ctx, slug)
}

// Image returns the badge's reference PNG bytes.
func (s *Service) Image(ctx context.Context, badge domain.Badge) ([]byte, error) {
	return s.media.Get(ctx, badge.ImageName)
}

// Document renders the public BadgeClass document. Every URL is absolute;
// validators fetch these documents with no referrer context.
func (s *Service) Document(badge domain.Badge) domain.BadgeClassDocument {
	alignments := make([]domain.AlignmentDocument, 0, len(badge.Alignments))
	for _, a := range badge.Alignments {
		alignments = append(alignments, domain.AlignmentDocument{
			Name:        a.Name,
			URL:         a.URL,
			Description: a.Description,
		})
	}
	tags := badge.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.BadgeClassDocument{
		Name:        badge.Title,
		Description: badge.Description,
		Image:       s.base.Media(badge.ImageName),
		Criteria:    badge.Criteria,
		Issuer:      s.base.Issuer(),
		Alignment:   alignments,
		Tags:        tags,
	}
}

// CriterionBySlug resolves the criterion page data for a badge.
func (s *Service) CriterionBySlug(ctx context.Context, slug string) (domain.Criterion, error) {
	return s.criteria.FindBySlug(ctx, slug)
}

// CreateCriterion stores a criterion page.
func (s *Service) CreateCriterion(ctx context.Context, criterion domain.Criterion) error {
	if criterion.Slug == "" || criterion.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "criterion name and slug are required")
	}
	return s.criteria.Create(ctx, criterion)
}
