package user

import (
	"context"
	"strings"
	"time"

	"go-fleet/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, tenantID string, u *User) error
	FindByID(ctx context.Context, tenantID, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) ([]User, error)
	List(ctx context.Context, tenantID string, q ListUsersQuery) ([]User, int64, error)
	CountActive(ctx context.Context, tenantID string) (int64, error)
	Update(ctx context.Context, tenantID, id string, values map[string]any) error
	TouchLastLogin(ctx context.Context, tenantID, id string, at time.Time) error
}

type repository struct {
	db    *gorm.DB
	store *tenant.Store[User, *User]
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, store: tenant.NewStore[User](db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, store: r.store.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, tenantID string, u *User) error {
	return r.store.Create(ctx, tenantID, u)
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*User, error) {
	return r.store.First(ctx, tenantID, id)
}

// FindByEmail is the one user lookup that is not tenant scoped: login
// does not know the tenant yet. Each match carries its tenant.
func (r *repository) FindByEmail(ctx context.Context, email string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) List(ctx context.Context, tenantID string, q ListUsersQuery) ([]User, int64, error) {
	lq := tenant.ListQuery{
		Page:  q.Page,
		Limit: q.Limit,
		Order: "created_at DESC",
	}
	if q.Role != "" {
		role := q.Role
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("role = ?", role)
		})
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		lq.Filters = append(lq.Filters, func(db *gorm.DB) *gorm.DB {
			return db.Where("name ILIKE ? OR email ILIKE ?", like, like)
		})
	}
	return r.store.Page(ctx, tenantID, lq)
}

func (r *repository) CountActive(ctx context.Context, tenantID string) (int64, error) {
	return r.store.Count(ctx, tenantID, tenant.ActiveOnly)
}

func (r *repository) Update(ctx context.Context, tenantID, id string, values map[string]any) error {
	rows, err := r.store.Updates(ctx, tenantID, id, values)
	if err != nil {
		return err
	}
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TouchLastLogin(ctx context.Context, tenantID, id string, at time.Time) error {
	_, err := r.store.Updates(ctx, tenantID, id, map[string]any{"last_login": at})
	return err
}
