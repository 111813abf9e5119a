package dto

import (
	"github.com/SscSPs/avec_backend/internal/core/domain"
)

type UserResponse struct {
	UserID    int64             `json:"userID"`
	Username  string            `json:"username"`
	Name      string            `json:"name"`
	Email     string            `json:"email,omitempty"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Phone     string            `json:"phone,omitempty"`
	Village   string            `json:"village,omitempty"`
	Role      domain.UserRole   `json:"role"`
	Status    domain.UserStatus `json:"status"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Name:      user.FullName(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Village:   user.Village,
		Role:      user.Role,
		Status:    user.Status,
	}
}

// UpdateUserRequest defines the data an administrator may change on a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Village   *string `json:"village" binding:"omitempty,max=100"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin facilitator animator animateur supervisor member"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateProfileRequest is the self-service profile edit. Names are required.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
