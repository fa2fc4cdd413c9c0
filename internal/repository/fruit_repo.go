package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/berekarkirti/Fruit-Inventory/internal/database/models"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

type FruitRepository interface {
	Create(ctx context.Context, f *models.Fruit) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Fruit, error)
	// ListScoped applies the role visibility rule: Managers get their own
	// items plus all approved items, Owners get everything.
	ListScoped(ctx context.Context, identity workflow.Identity) ([]models.Fruit, error)
	ListPending(ctx context.Context) ([]models.Fruit, error)
	Update(ctx context.Context, f *models.Fruit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fruitRepo struct{ db *gorm.DB }

func NewFruitRepository(db *gorm.DB) FruitRepository { return &fruitRepo{db: db} }

func (r *fruitRepo) Create(ctx context.Context, f *models.Fruit) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fruitRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Fruit, error) {
	var f models.Fruit
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fruitRepo) ListScoped(ctx context.Context, identity workflow.Identity) ([]models.Fruit, error) {
	q := r.db.WithContext(ctx)
	if identity.Role == workflow.RoleManager {
		q = q.Where("added_by = ? OR status = ?", identity.Username, string(workflow.StatusApproved))
	}
	var fruits []models.Fruit
	err := q.Order("created_at DESC").Find(&fruits).Error
	return fruits, err
}

func (r *fruitRepo) ListPending(ctx context.Context) ([]models.Fruit, error) {
	var fruits []models.Fruit
	err := r.db.WithContext(ctx).
		Where("status = ?", string(workflow.StatusPending)).
		Order("created_at DESC").
		Find(&fruits).Error
	return fruits, err
}

func (r *fruitRepo) Update(ctx context.Context, f *models.Fruit) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *fruitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Fruit{}, "id = ?", id).Error
}
