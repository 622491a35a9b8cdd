package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/models"
	"github.com/emureccima/corporate-sub000/internal/adapters/persistence/repositories"
	"github.com/emureccima/corporate-sub000/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// Directory errors
var (
	ErrBusinessNotFound = fmt.Errorf("%w: business listing", domain.ErrNotFound)
)

const (
	directoryCacheTTL = 10 * time.Minute
)

// DirectoryService manages the member business directory. Listings are
// the one read-heavy, money-free dataset here, so the public listing is
// served through a redis read-through cache with write invalidation.
// Balances and loan state are never cached anywhere in this codebase.
type DirectoryService struct {
	businessRepo repositories.BusinessRepository
	redis        *redis.Client
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(businessRepo repositories.BusinessRepository, redisClient *redis.Client) *DirectoryService {
	return &DirectoryService{
		businessRepo: businessRepo,
		redis:        redisClient,
	}
}

// BusinessInput represents a create/update listing payload
type BusinessInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Category    string `json:"category" validate:"required,max=50"`
	Description string `json:"description" validate:"max=2000"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
}

// cachedPage is the serialized shape of one cached directory page
type cachedPage struct {
	Businesses []*models.Business `json:"businesses"`
	Total      int64              `json:"total"`
}

// Create adds a listing for the member and invalidates the cache
func (s *DirectoryService) Create(ctx context.Context, memberID uint, input *BusinessInput) (*models.Business, error) {
	business := &models.Business{
		MemberID:    memberID,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Phone:       input.Phone,
		IsActive:    true,
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, infraErr(err)
	}

	s.invalidateCache(ctx)
	return business, nil
}

// Update modifies a member's own listing (admins may edit any)
func (s *DirectoryService) Update(ctx context.Context, businessID, memberID uint, isAdmin bool, input *BusinessInput) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, storeErr(err, ErrBusinessNotFound)
	}
	if business.MemberID != memberID && !isAdmin {
		return nil, domain.ErrForbidden
	}

	business.Name = input.Name
	business.Category = input.Category
	business.Description = input.Description
	business.Phone = input.Phone

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, infraErr(err)
	}

	s.invalidateCache(ctx)
	return business, nil
}

// Delete removes a member's own listing (admins may remove any)
func (s *DirectoryService) Delete(ctx context.Context, businessID, memberID uint, isAdmin bool) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return storeErr(err, ErrBusinessNotFound)
	}
	if business.MemberID != memberID && !isAdmin {
		return domain.ErrForbidden
	}

	if err := s.businessRepo.Delete(ctx, businessID); err != nil {
		return infraErr(err)
	}

	s.invalidateCache(ctx)
	return nil
}

// List serves the public directory, read-through cached. Cache
// failures fall back to the database silently; the directory must not
// become unavailable because redis is.
func (s *DirectoryService) List(ctx context.Context, category string, offset, limit int) ([]*models.Business, int64, error) {
	key := s.cacheKey(category, offset, limit)

	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, key).Result(); err == nil {
			var page cachedPage
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				return page.Businesses, page.Total, nil
			}
		}
	}

	businesses, total, err := s.businessRepo.ListActive(ctx, category, offset, limit)
	if err != nil {
		return nil, 0, infraErr(err)
	}

	if s.redis != nil {
		if raw, err := json.Marshal(cachedPage{Businesses: businesses, Total: total}); err == nil {
			if err := s.redis.Set(ctx, key, raw, directoryCacheTTL).Err(); err != nil {
				log.Printf("Warning: directory cache write failed: %v", err)
			}
		}
	}

	return businesses, total, nil
}

// ListByMember lists the member's own listings, uncached
func (s *DirectoryService) ListByMember(ctx context.Context, memberID uint) ([]*models.Business, error) {
	businesses, err := s.businessRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, infraErr(err)
	}
	return businesses, nil
}

func (s *DirectoryService) cacheKey(category string, offset, limit int) string {
	return fmt.Sprintf("directory:%s:%d:%d", category, offset, limit)
}

// invalidateCache drops all cached directory pages after a write
func (s *DirectoryService) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}

	iter := s.redis.Scan(ctx, 0, "directory:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Warning: directory cache invalidation failed for %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Warning: directory cache scan failed: %v", err)
	}
}
