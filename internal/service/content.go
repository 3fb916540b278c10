package service

import (
	"context"
	"errors"
	"strings"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

// DefaultAgreementTemplate is used until an admin saves one.
const DefaultAgreementTemplate = `<h3>HAZEL Rental Agreement</h3>
<p>This agreement is made between the item owner(s) and <b>[Renter Name]</b>.</p>
<p>The renter agrees to rent the following items under the listed terms:</p>
[List of Items and Terms]
<p>The renter shall return every item in the same condition it was received, on or before the end of the rental period.</p>
<p>Late returns and damage are settled directly with the owner.</p>`

type contentService struct {
	contentRepo repository.ContentRepository
}

func NewContentService(contentRepo repository.ContentRepository) ContentService {
	return &contentService{contentRepo: contentRepo}
}

func (s *contentService) GetAgreementTemplate(ctx context.Context) (*domain.SiteContent, error) {
	c, err := s.contentRepo.Get(ctx, domain.ContentKeyRentalAgreement)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.SiteContent{Key: domain.ContentKeyRentalAgreement, Body: DefaultAgreementTemplate}, nil
	}
	return c, err
}

func (s *contentService) UpdateAgreementTemplate(ctx context.Context, actor domain.Actor, body string) (*domain.SiteContent, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrTemplateEmpty
	}

	updatedBy := actor.UserID
	c := &domain.SiteContent{Key: domain.ContentKeyRentalAgreement, Body: body, UpdatedBy: &updatedBy}
	if err := s.contentRepo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("Rental agreement template updated", "adminID", actor.UserID, "length", len(body))
	return c, nil
}
