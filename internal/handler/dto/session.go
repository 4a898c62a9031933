package dto

import "github.com/nonnoweb/nonnoweb/internal/model"

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Username     string             `json:"username"`
	Role         string             `json:"role"`
	IsActive     bool               `json:"isActive"`
	Membership   model.MembershipID `json:"membership"`
	ExpiryDate   *int64             `json:"expiryDate,omitempty"`
	SavedRecipes []model.Recipe     `json:"savedRecipes"`
	DailyCount   *model.DailyCount  `json:"dailyCount,omitempty"`
}

// SessionResponse wraps the logged-in user.
type SessionResponse struct {
	User UserResponse `json:"user"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) UserResponse {
	saved := u.SavedRecipes
	if saved == nil {
		saved = []model.Recipe{}
	}
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         u.Role,
		IsActive:     u.IsActive,
		Membership:   u.Membership,
		ExpiryDate:   u.ExpiryDate,
		SavedRecipes: saved,
		DailyCount:   u.DailyCount,
	}
}

// ToUserListResponse converts users to their DTOs.
func ToUserListResponse(users []model.User) UserListResponse {
	data := make([]UserResponse, len(users))
	for i := range users {
		data[i] = ToUserResponse(&users[i])
	}
	return UserListResponse{Data: data}
}
