package request

// CustomerRequest represents a customer create/update request
type CustomerRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	TaxNumber *string `json:"tax_number" binding:"omitempty,max=100"`
	Address   *string `json:"address"`
}
