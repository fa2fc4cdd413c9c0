package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/berekarkirti/Fruit-Inventory/internal/database/models"
	"github.com/berekarkirti/Fruit-Inventory/internal/dto"
	"github.com/berekarkirti/Fruit-Inventory/internal/repository"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

const (
	ALL_FRUITS_CACHE_KEY     = "fruits:all"
	PENDING_FRUITS_CACHE_KEY = "fruits:pending"
	OWNER_STATS_CACHE_KEY    = "fruits:stats:owner"
	CACHE_TTL_SHORT          = 5 * time.Minute
)

var (
	ErrFruitNotFound = errors.New("fruit not found")
	ErrInvalidAmount = errors.New("price and quantity must be non-negative")
)

const defaultRejectionReason = "No reason provided"

type FruitService interface {
	List(ctx context.Context, identity workflow.Identity) ([]models.Fruit, error)
	Create(ctx context.Context, identity workflow.Identity, req dto.CreateFruitRequest) (*models.Fruit, error)
	Update(ctx context.Context, identity workflow.Identity, id uuid.UUID, req dto.UpdateFruitRequest) (*models.Fruit, error)
	Delete(ctx context.Context, identity workflow.Identity, id uuid.UUID) error
	Approve(ctx context.Context, identity workflow.Identity, id uuid.UUID) (*models.Fruit, error)
	Reject(ctx context.Context, identity workflow.Identity, id uuid.UUID, reason string) (*models.Fruit, error)
	Stats(ctx context.Context, identity workflow.Identity) (*dto.StatsResponse, error)
	Pending(ctx context.Context) ([]models.Fruit, error)
}

type fruitService struct {
	repo  repository.FruitRepository
	redis *redis.Client
}

// NewFruitService builds the inventory service. redisClient may be nil,
// in which case every read goes to the database.
func NewFruitService(repo repository.FruitRepository, redisClient *redis.Client) FruitService {
	return &fruitService{repo: repo, redis: redisClient}
}

func (s *fruitService) List(ctx context.Context, identity workflow.Identity) ([]models.Fruit, error) {
	// Only the owner-wide listing is identity-independent enough to cache.
	if identity.Role == workflow.RoleOwner {
		var cached []models.Fruit
		if s.cacheGet(ctx, ALL_FRUITS_CACHE_KEY, &cached) {
			return cached, nil
		}
	}

	fruits, err := s.repo.ListScoped(ctx, identity)
	if err != nil {
		return nil, err
	}

	if identity.Role == workflow.RoleOwner {
		s.cacheSet(ctx, ALL_FRUITS_CACHE_KEY, fruits, CACHE_TTL_SHORT)
	}
	return fruits, nil
}

func (s *fruitService) Create(ctx context.Context, identity workflow.Identity, req dto.CreateFruitRequest) (*models.Fruit, error) {
	if req.Price.IsNegative() || req.Quantity < 0 {
		return nil, ErrInvalidAmount
	}

	remark := req.Remark
	if remark == "" {
		remark = "Available"
	}

	fruit := &models.Fruit{
		ProductName: req.ProductName,
		State:       workflow.Origin(req.ProductName, req.State),
		Price:       req.Price,
		Remark:      remark,
		Quantity:    req.Quantity,
		Status:      string(workflow.InitialStatus(identity.Role)),
		AddedBy:     identity.Username,
		AddedByRole: string(identity.Role),
	}

	if err := s.repo.Create(ctx, fruit); err != nil {
		return nil, err
	}
	s.invalidateFruitCaches(ctx)
	return fruit, nil
}

func (s *fruitService) Update(ctx context.Context, identity workflow.Identity, id uuid.UUID, req dto.UpdateFruitRequest) (*models.Fruit, error) {
	fruit, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := workflow.CanMutate(identity, fruit.AddedBy, workflow.Status(fruit.Status)); err != nil {
		return nil, err
	}

	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	if req.ProductName != nil {
		fruit.ProductName = *req.ProductName
	}
	if req.State != nil {
		fruit.State = *req.State
	}
	if req.Price != nil {
		fruit.Price = *req.Price
	}
	if req.Quantity != nil {
		fruit.Quantity = *req.Quantity
	}
	if req.Remark != nil {
		fruit.Remark = *req.Remark
	}

	if err := s.repo.Update(ctx, fruit); err != nil {
		return nil, err
	}
	s.invalidateFruitCaches(ctx)
	return fruit, nil
}

func (s *fruitService) Delete(ctx context.Context, identity workflow.Identity, id uuid.UUID) error {
	fruit, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := workflow.CanMutate(identity, fruit.AddedBy, workflow.Status(fruit.Status)); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateFruitCaches(ctx)
	return nil
}

// Approve moves an item to Approved and stamps the approval metadata.
// Re-approving a rejected item is legal and clears the rejection reason.
func (s *fruitService) Approve(ctx context.Context, identity workflow.Identity, id uuid.UUID) (*models.Fruit, error) {
	fruit, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fruit.Status = string(workflow.StatusApproved)
	fruit.ApprovedBy = strPtr(identity.Username)
	fruit.ApprovedByRole = strPtr(string(identity.Role))
	fruit.ApprovalDate = &now
	fruit.RejectionReason = nil

	if err := s.repo.Update(ctx, fruit); err != nil {
		return nil, err
	}
	s.invalidateFruitCaches(ctx)
	return fruit, nil
}

// Reject also applies to approved items: the state machine allows an
// Owner to reverse an approval.
func (s *fruitService) Reject(ctx context.Context, identity workflow.Identity, id uuid.UUID, reason string) (*models.Fruit, error) {
	fruit, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = defaultRejectionReason
	}

	now := time.Now()
	fruit.Status = string(workflow.StatusRejected)
	fruit.RejectionReason = strPtr(reason)
	fruit.ApprovedBy = strPtr(identity.Username)
	fruit.ApprovedByRole = strPtr(string(identity.Role))
	fruit.ApprovalDate = &now

	if err := s.repo.Update(ctx, fruit); err != nil {
		return nil, err
	}
	s.invalidateFruitCaches(ctx)
	return fruit, nil
}

func (s *fruitService) Stats(ctx context.Context, identity workflow.Identity) (*dto.StatsResponse, error) {
	if identity.Role == workflow.RoleOwner {
		var cached dto.StatsResponse
		if s.cacheGet(ctx, OWNER_STATS_CACHE_KEY, &cached) {
			cached.Username = identity.Username
			cached.UserRole = string(identity.Role)
			return &cached, nil
		}
	}

	fruits, err := s.repo.ListScoped(ctx, identity)
	if err != nil {
		return nil, err
	}

	stats := &dto.StatsResponse{
		TotalFruits: len(fruits),
		TotalValue:  decimal.Zero,
		Username:    identity.Username,
		UserRole:    string(identity.Role),
	}
	for _, f := range fruits {
		switch workflow.Status(f.Status) {
		case workflow.StatusApproved:
			stats.ApprovedFruits++
			// value and quantity totals cover approved items only
			stats.TotalValue = stats.TotalValue.Add(f.Price.Mul(decimal.NewFromInt(f.Quantity)))
			stats.TotalQuantity += f.Quantity
		case workflow.StatusPending:
			stats.PendingFruits++
		case workflow.StatusRejected:
			stats.RejectedFruits++
		}
	}

	if identity.Role == workflow.RoleOwner {
		s.cacheSet(ctx, OWNER_STATS_CACHE_KEY, stats, CACHE_TTL_SHORT)
	}
	return stats, nil
}

func (s *fruitService) Pending(ctx context.Context) ([]models.Fruit, error) {
	var cached []models.Fruit
	if s.cacheGet(ctx, PENDING_FRUITS_CACHE_KEY, &cached) {
		return cached, nil
	}

	fruits, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, PENDING_FRUITS_CACHE_KEY, fruits, CACHE_TTL_SHORT)
	return fruits, nil
}

func (s *fruitService) find(ctx context.Context, id uuid.UUID) (*models.Fruit, error) {
	fruit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFruitNotFound
		}
		return nil, err
	}
	return fruit, nil
}

// --- Cache helpers ---

func (s *fruitService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

func (s *fruitService) cacheSet(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *fruitService) invalidateFruitCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, ALL_FRUITS_CACHE_KEY, PENDING_FRUITS_CACHE_KEY, OWNER_STATS_CACHE_KEY).Err()
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
