package rbac

import "go-fleet/internal/domain"

type PermissionsResponse struct {
	Role        string              `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}
