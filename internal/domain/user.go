package domain

import "time"

const (
	RoleRegular = "Regular"
	RoleAdmin   = "Admin"
)

type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	Phone        string     `json:"phone" dynamodbav:"phone"`
	PasscodeHash string     `json:"-" dynamodbav:"passcode_hash"`
	Role         string     `json:"role" dynamodbav:"role"`
	Banned       bool       `json:"banned" dynamodbav:"banned"`
	OTP          string     `json:"-" dynamodbav:"otp"`
	OTPExpiresAt int64      `json:"-" dynamodbav:"otp_expires_at"` // Unix seconds
	OTPVerified  bool       `json:"otp_verified" dynamodbav:"otp_verified"`
	RefreshToken string     `json:"-" dynamodbav:"refresh_token"`
	LastLogin    *time.Time `json:"last_login,omitempty" dynamodbav:"last_login"`
	Cart         []CartItem `json:"cart" dynamodbav:"cart"`
	CreatedAt    time.Time  `json:"date_signed" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// CartItem is one entry of a user's cart. The cart lives as a list attribute
// on the user row rather than its own table.
type CartItem struct {
	ProductID string  `json:"product_id" dynamodbav:"product_id" validate:"required"`
	Name      string  `json:"name" dynamodbav:"name" validate:"required"`
	Price     float64 `json:"price" dynamodbav:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" dynamodbav:"quantity" validate:"required,gt=0"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Passcode string `json:"passcode" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Passcode string `json:"passcode" validate:"required"`
}
