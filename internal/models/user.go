package models

// Store approval states returned by the marketplace API.
const (
	StoreStatusPending   = "pending"
	StoreStatusActive    = "active"
	StoreStatusSuspended = "suspended"
	StoreStatusRejected  = "rejected"
)

// User is the account record the marketplace whoami endpoint returns. The
// same shape covers plain buyers and sellers; seller-only fields stay nil
// for everyone else.
type User struct {
	ID            FlexID         `json:"id"`
	Email         string         `json:"email"`
	Username      string         `json:"username,omitempty"`
	FullName      string         `json:"full_name,omitempty"`
	FirstName     string         `json:"first_name,omitempty"`
	LastName      string         `json:"last_name,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Location      string         `json:"location,omitempty"`
	IsStaff       bool           `json:"is_staff,omitempty"`
	IsSuperuser   bool           `json:"is_superuser,omitempty"`
	IsSeller      bool           `json:"is_seller,omitempty"`
	SellerProfile *SellerProfile `json:"seller_profile,omitempty"`
}

type SellerProfile struct {
	ID               FlexID   `json:"id"`
	StoreName        string   `json:"store_name"`
	StoreStatus      string   `json:"store_status"`
	StoreDescription string   `json:"store_description,omitempty"`
	StoreLogo        string   `json:"store_logo,omitempty"`
	StoreBanner      string   `json:"store_banner,omitempty"`
	CommissionRate   *float64 `json:"commission_rate,omitempty"`
	TotalSales       *float64 `json:"total_sales,omitempty"`
	Balance          *float64 `json:"balance,omitempty"`
	CreatedAt        string   `json:"created_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}
