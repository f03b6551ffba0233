package tenant

import (
	"context"
	"errors"
	"maps"

	"go-fleet/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidTenant = errors.New("tenant: invalid tenant id")

// Owned is implemented by every record that belongs to a tenant.
type Owned interface {
	SetTenantID(id uuid.UUID)
}

type ListQuery struct {
	Page    int
	Limit   int
	Order   string
	Filters []func(*gorm.DB) *gorm.DB
	Preload []string
}

func (q ListQuery) offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Store is the only path from a domain repository to a tenant-owned
// table. Every statement it builds carries the tenant filter and every
// insert is stamped with the caller's tenant.
type Store[T any, PT interface {
	*T
	Owned
}] struct {
	db *gorm.DB
}

func NewStore[T any, PT interface {
	*T
	Owned
}](db *gorm.DB) *Store[T, PT] {
	return &Store[T, PT]{db: db}
}

func (s *Store[T, PT]) WithTx(tx *gorm.DB) *Store[T, PT] {
	if tx == nil {
		return s
	}
	return &Store[T, PT]{db: tx}
}

// Query starts a tenant-filtered statement on T's table.
func (s *Store[T, PT]) Query(ctx context.Context, tenantID string) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(T)).Scopes(Scope(tenantID))
}

// Create stamps rec with tenantID, whatever the record already carried.
func (s *Store[T, PT]) Create(ctx context.Context, tenantID string, rec PT) error {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return ErrInvalidTenant
	}
	rec.SetTenantID(id)
	return s.db.WithContext(ctx).Create(rec).Error
}

// First loads one record. Ids that are malformed or belong to another
// tenant both come back as gorm.ErrRecordNotFound.
func (s *Store[T, PT]) First(ctx context.Context, tenantID, id string, scopes ...func(*gorm.DB) *gorm.DB) (PT, error) {
	return s.first(ctx, tenantID, id, false, scopes...)
}

// FirstForUpdate is First with a row lock. It must run inside a
// transaction.
func (s *Store[T, PT]) FirstForUpdate(ctx context.Context, tenantID, id string, scopes ...func(*gorm.DB) *gorm.DB) (PT, error) {
	return s.first(ctx, tenantID, id, true, scopes...)
}

func (s *Store[T, PT]) first(ctx context.Context, tenantID, id string, lock bool, scopes ...func(*gorm.DB) *gorm.DB) (PT, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	q := s.Query(ctx, tenantID).Scopes(scopes...).Scopes(ByID(id))
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	rec := PT(new(T))
	if err := q.First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Page returns one page of records plus the total matching the filters.
func (s *Store[T, PT]) Page(ctx context.Context, tenantID string, lq ListQuery) ([]T, int64, error) {
	var total int64
	if err := s.Query(ctx, tenantID).Scopes(lq.Filters...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}

	q := s.Query(ctx, tenantID).Scopes(lq.Filters...)
	for _, name := range lq.Preload {
		q = q.Preload(name, Scope(tenantID))
	}
	if lq.Order != "" {
		q = q.Order(lq.Order)
	}
	if lq.Limit > 0 {
		q = q.Offset(lq.offset()).Limit(lq.Limit)
	}

	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store[T, PT]) Count(ctx context.Context, tenantID string, filters ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	err := s.Query(ctx, tenantID).Scopes(filters...).Count(&total).Error
	return total, err
}

// Updates writes values to one record and reports how many rows matched.
func (s *Store[T, PT]) Updates(ctx context.Context, tenantID, id string, values map[string]any) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	res := s.Query(ctx, tenantID).Scopes(ByID(id)).Updates(values)
	return res.RowsAffected, res.Error
}

// UpdateVersioned writes values only if the stored version still equals
// version, and bumps it. A lost race surfaces as a version conflict.
func (s *Store[T, PT]) UpdateVersioned(ctx context.Context, tenantID, id string, version int64, values map[string]any) error {
	if _, err := uuid.Parse(id); err != nil {
		return gorm.ErrRecordNotFound
	}

	vals := maps.Clone(values)
	if vals == nil {
		vals = map[string]any{}
	}
	vals["version"] = gorm.Expr("version + 1")

	res := s.Query(ctx, tenantID).
		Scopes(ByID(id)).
		Where(clause.Eq{Column: column("version"), Value: version}).
		Updates(vals)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrVersionConflict
	}
	return nil
}

// Delete removes one record and reports how many rows matched.
func (s *Store[T, PT]) Delete(ctx context.Context, tenantID, id string) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}
	res := s.Query(ctx, tenantID).Scopes(ByID(id)).Delete(new(T))
	return res.RowsAffected, res.Error
}
