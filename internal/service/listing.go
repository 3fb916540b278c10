package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/storage"
)

const (
	DefaultPageSize  = 12
	MaxPageSize      = 48
	quickSearchLimit = 8
)

type listingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStore
}

func NewListingService(listingRepo repository.ListingRepository, categoryRepo repository.CategoryRepository, images storage.ImageStore) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		images:       images,
	}
}

func (s *listingService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *listingService) Browse(ctx context.Context, viewer domain.Actor, q BrowseQuery) (*ListingPage, error) {
	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.listingRepo.Search(ctx, domain.ListingFilter{
		Category:        q.Category,
		Term:            q.Term,
		IncludeInactive: viewer.IsAdmin(),
		Page:            page,
		PageSize:        pageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return &ListingPage{
		Items:      items,
		Page:       page,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *listingService) QuickSearch(ctx context.Context, viewer domain.Actor, term string) ([]domain.Listing, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) <= 1 {
		return []domain.Listing{}, nil
	}
	items, _, err := s.listingRepo.Search(ctx, domain.ListingFilter{
		Term:            term,
		IncludeInactive: viewer.IsAdmin(),
		Page:            1,
		PageSize:        quickSearchLimit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return items, nil
}

func (s *listingService) load(ctx context.Context, id int32) (*domain.Listing, error) {
	l, err := s.listingRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	return l, err
}

func (s *listingService) Get(ctx context.Context, viewer domain.Actor, id int32) (*ListingDetail, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	// unavailable items are only visible to their owner and admins
	if !l.Available && !viewer.IsAdmin() && viewer.UserID != l.OwnerID {
		return nil, ErrListingNotFound
	}
	return &ListingDetail{Listing: *l, PriceOptions: pricing.Options(l.PricePerDayCents)}, nil
}

func (s *listingService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	items, _, err := s.listingRepo.Search(ctx, domain.ListingFilter{OwnerID: actor.UserID, IncludeInactive: true})
	if items == nil {
		items = []domain.Listing{}
	}
	return items, err
}

func (s *listingService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	items, _, err := s.listingRepo.Search(ctx, domain.ListingFilter{IncludeInactive: true})
	if items == nil {
		items = []domain.Listing{}
	}
	return items, err
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// imagePrefixes are the storage prefixes holding images that belong to l:
// its own upload folder and the staging folders of its owner and editor.
func imagePrefixes(l *domain.Listing, editorID int32) []string {
	prefixes := []string{fmt.Sprintf("listings/staged/%d/", l.OwnerID)}
	if l.ID != 0 {
		prefixes = append(prefixes, fmt.Sprintf("listings/%d/", l.ID))
	}
	if editorID != 0 && editorID != l.OwnerID {
		prefixes = append(prefixes, fmt.Sprintf("listings/staged/%d/", editorID))
	}
	return prefixes
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// apply validates in and copies it onto l. An empty ImageURL keeps the
// current image. Locally stored images must belong to l or its editor.
func (s *listingService) apply(ctx context.Context, actor domain.Actor, l *domain.Listing, in ListingInput) error {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	switch {
	case title == "":
		return invalid("title is required")
	case strings.TrimSpace(in.Category) == "":
		return invalid("category is required")
	case desc == "":
		return invalid("description is required")
	case in.PricePerDayCents <= 0:
		return invalid("price must be greater than zero")
	}

	cat, err := s.categoryRepo.GetByName(ctx, strings.TrimSpace(in.Category))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if img := strings.TrimSpace(in.ImageURL); img != "" && img != l.ImageURL {
		if key, ok := s.images.KeyFromURL(img); ok && !hasAnyPrefix(key, imagePrefixes(l, actor.UserID)) {
			return invalid("image belongs to another listing")
		}
		l.ImageURL = img
	}
	if l.ImageURL == "" {
		return invalid("image is required")
	}

	l.Title = title
	l.FullTitle = strings.TrimSpace(in.FullTitle)
	l.Description = desc
	l.CategoryID = cat.ID
	l.CategoryName = cat.Name
	l.PricePerDayCents = in.PricePerDayCents
	l.Tags = normalizeTags(in.Tags)
	l.TrackingTagID = strings.TrimSpace(in.TrackingTagID)
	l.OwnerTerms = strings.TrimSpace(in.OwnerTerms)
	return nil
}

func (s *listingService) Create(ctx context.Context, actor domain.Actor, in ListingInput) (*domain.Listing, error) {
	logger.EnterMethod("listingService.Create", "ownerID", actor.UserID, "title", in.Title)
	if actor.Role != domain.UserRoleOwner {
		return nil, ErrOwnersOnly
	}

	l := &domain.Listing{OwnerID: actor.UserID, Available: true}
	if err := s.apply(ctx, actor, l, in); err != nil {
		logger.ExitMethodWithError("listingService.Create", err)
		return nil, err
	}
	if err := s.listingRepo.Create(ctx, l); err != nil {
		logger.ExitMethodWithError("listingService.Create", err, "reason", "insert failed")
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	logger.ExitMethod("listingService.Create", "listingID", l.ID)
	// reload for owner name and email
	return s.load(ctx, l.ID)
}

// loadForEdit returns the listing when actor owns it or is an admin.
func (s *listingService) loadForEdit(ctx context.Context, actor domain.Actor, id int32) (*domain.Listing, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && l.OwnerID != actor.UserID {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *listingService) Update(ctx context.Context, actor domain.Actor, id int32, in ListingInput) (*domain.Listing, error) {
	l, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	oldImage := l.ImageURL
	if err := s.apply(ctx, actor, l, in); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	if oldImage != l.ImageURL {
		s.removeImage(ctx, l, oldImage)
	}
	return l, nil
}

func (s *listingService) Delete(ctx context.Context, actor domain.Actor, id int32) error {
	l, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.listingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	s.removeImage(ctx, l, l.ImageURL)
	logger.Info("Listing deleted", "listingID", id, "by", actor.UserID, "admin", actor.IsAdmin())
	return nil
}

func (s *listingService) SetAvailability(ctx context.Context, actor domain.Actor, id int32, available bool) (*domain.Listing, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.listingRepo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *listingService) StageImage(ctx context.Context, actor domain.Actor, contentType string, r io.Reader) (string, error) {
	if actor.Role != domain.UserRoleOwner && !actor.IsAdmin() {
		return "", ErrOwnersOnly
	}
	key, err := storage.NewImageKey(fmt.Sprintf("listings/staged/%d", actor.UserID), contentType)
	if err != nil {
		return "", err
	}
	if err := s.images.Save(ctx, key, r); err != nil {
		return "", err
	}
	return s.images.URL(key), nil
}

func (s *listingService) UploadImage(ctx context.Context, actor domain.Actor, id int32, contentType string, r io.Reader) (*domain.Listing, error) {
	l, err := s.loadForEdit(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	key, err := storage.NewImageKey(fmt.Sprintf("listings/%d", id), contentType)
	if err != nil {
		return nil, err
	}
	if err := s.images.Save(ctx, key, r); err != nil {
		return nil, err
	}

	oldImage := l.ImageURL
	l.ImageURL = s.images.URL(key)
	if err := s.listingRepo.Update(ctx, l); err != nil {
		s.images.Delete(ctx, key)
		return nil, err
	}
	s.removeImage(ctx, l, oldImage)
	return l, nil
}

// removeImage deletes a stored image of l. URLs hosted elsewhere and keys
// outside l's own folders are left alone.
func (s *listingService) removeImage(ctx context.Context, l *domain.Listing, imageURL string) {
	key, ok := s.images.KeyFromURL(imageURL)
	if !ok || !hasAnyPrefix(key, imagePrefixes(l, 0)) {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete listing image", "key", key, "error", err)
	}
}
