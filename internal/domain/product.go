package domain

import "time"

type Product struct {
	ProductID    string     `json:"id" dynamodbav:"product_id"`
	UserID       string     `json:"user_id" dynamodbav:"user_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Description  string     `json:"description" dynamodbav:"description"`
	Price        float64    `json:"price" dynamodbav:"price"`
	Quantity     int        `json:"quantity" dynamodbav:"quantity"`
	CategoryID   string     `json:"category_id" dynamodbav:"category_id"`
	ImageKey     string     `json:"image_key,omitempty" dynamodbav:"image_key"`
	DateAdded    time.Time  `json:"date_added" dynamodbav:"date_added"`
	DateModified *time.Time `json:"date_modified,omitempty" dynamodbav:"date_modified"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gte=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
}

// UpdateProductRequest is the allow-list of mutable product fields.
// CategoryID is deliberately absent: a product cannot change category,
// the owner creates a new product instead.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
}
