package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,min=2,max=255"`
	Phone string  `json:"phone" binding:"required,min=5,max=20"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
