package user

type UserResponse struct {
	ID        string  `json:"id"`
	TenantID  string  `json:"tenantId"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Phone     string  `json:"phone,omitempty"`
	IsActive  bool    `json:"isActive"`
	LastLogin *string `json:"lastLogin,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

type ListUsersQuery struct {
	Page   int
	Limit  int
	Role   string
	Search string
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Role     *string `json:"role" binding:"omitempty,oneof=superadmin admin manager driver"`
	IsActive *bool   `json:"isActive"`
}
