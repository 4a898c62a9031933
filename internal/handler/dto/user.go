package dto

import "github.com/nonnoweb/nonnoweb/internal/model"

// CreateUserRequest represents the admin form for adding a member.
type CreateUserRequest struct {
	Email      string             `json:"email" validate:"required,email"`
	Password   string             `json:"password" validate:"required"`
	Username   string             `json:"username" validate:"required"`
	Membership model.MembershipID `json:"membership,omitempty"`
	IsActive   *bool              `json:"isActive,omitempty"`
}

// UpdateUserRequest represents a partial user update. Omitted fields are
// left unchanged; an empty password keeps the current one.
type UpdateUserRequest struct {
	Email      *string             `json:"email,omitempty" validate:"omitempty,email"`
	Password   *string             `json:"password,omitempty"`
	Username   *string             `json:"username,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool               `json:"isActive,omitempty"`
	Membership *model.MembershipID `json:"membership,omitempty"`
}

// UserListResponse represents the admin user list.
type UserListResponse struct {
	Data []UserResponse `json:"data"`
}

// PlanListResponse represents the membership plans.
type PlanListResponse struct {
	Data []model.MembershipPlan `json:"data"`
}

// SavePlansRequest replaces all membership plans.
type SavePlansRequest struct {
	Plans []model.MembershipPlan `json:"plans" validate:"required"`
}

// ExpiryResponse previews the expiry of a membership bought now.
type ExpiryResponse struct {
	Membership model.MembershipID `json:"membership"`
	ExpiryDate *int64             `json:"expiryDate"`
}
