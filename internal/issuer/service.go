// Package issuer serves the canonical issuing-organization profile.
package issuer

import (
	"context"
	"errors"

	"badgehub/internal/domain"
	"badgehub/internal/imaging"
	"badgehub/internal/storage"
	dErrors "badgehub/pkg/domain-errors"
)

type Service struct {
	issuers storage.IssuerStore
	media   storage.MediaStore
	base    domain.BaseURL
}

func NewService(issuers storage.IssuerStore, media storage.MediaStore, base domain.BaseURL) *Service {
	return &Service{issuers: issuers, media: media, base: base}
}

// Get returns the canonical issuer record. Zero configured issuers is a
// deployment error, not a per-request 404, so it surfaces as NotConfigured.
func (s *Service) Get(ctx context.Context) (domain.Issuer, error) {
	issuer, err := s.issuers.First(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Issuer{}, dErrors.New(dErrors.CodeNotConfigured, "no issuer configured")
		}
		return domain.Issuer{}, dErrors.Wrap(dErrors.CodeInternal, "load issuer", err)
	}
	return issuer, nil
}

// SaveInput carries the administrative issuer profile. Image is an
// optional PNG logo.
type SaveInput struct {
	Name        string
	URL         string
	Description string
	Email       string
	Image       []byte
}

// Save replaces the canonical issuer record, storing the logo when one is
// supplied.
func (s *Service) Save(ctx context.Context, input SaveInput) (domain.Issuer, error) {
	if input.Name == "" || input.URL == "" {
		return domain.Issuer{}, dErrors.New(dErrors.CodeValidation, "issuer name and url are required")
	}
	record := domain.Issuer{
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		Email:       input.Email,
	}
	if len(input.Image) > 0 {
		if err := imaging.ValidatePNG(input.Image); err != nil {
			return domain.Issuer{}, err
		}
		record.ImageName = "issuer/logo.png"
		if err := s.media.Put(ctx, record.ImageName, input.Image); err != nil {
			return domain.Issuer{}, dErrors.Wrap(dErrors.CodeInternal, "store issuer logo", err)
		}
	}
	if err := s.issuers.Save(ctx, record); err != nil {
		return domain.Issuer{}, dErrors.Wrap(dErrors.CodeInternal, "save issuer", err)
	}
	return record, nil
}

// Document renders the public issuer document.
func (s *Service) Document(issuer domain.Issuer) domain.IssuerDocument {
	return domain.IssuerDocument{
		Name:           issuer.Name,
		Image:          s.base.Media(issuer.ImageName),
		URL:            issuer.URL,
		Email:          issuer.Email,
		RevocationList: s.base.RevocationList(),
	}
}
