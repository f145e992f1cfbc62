package testutil

import (
	"github.com/Confidence90/merchant-maple/internal/models"
)

// UserOption mutates a fixture user before it is returned
type UserOption func(*models.User)

func WithSeller(status string) UserOption {
	return func(u *models.User) {
		u.IsSeller = true
		u.SellerProfile = &models.SellerProfile{
			ID:          models.NewFlexID(10),
			StoreName:   "Test Store",
			StoreStatus: status,
		}
	}
}

func WithSellerNoProfile() UserOption {
	return func(u *models.User) {
		u.IsSeller = true
		u.SellerProfile = nil
	}
}

func WithStaff() UserOption {
	return func(u *models.User) {
		u.IsStaff = true
	}
}

// BuildUser creates an in-memory user record with default values
func BuildUser(id int64, opts ...UserOption) *models.User {
	user := &models.User{
		ID:       models.NewFlexID(id),
		Email:    "user@example.com",
		FullName: "Test User",
	}
	for _, opt := range opts {
		opt(user)
	}
	return user
}
