package models

// CreateProductRequest is the multipart payload for the admin create
// operation. Price fields arrive as text and go through the price
// normalizer, so they stay strings here. Categories is a JSON string array.
type CreateProductRequest struct {
	Name          string `form:"name" validate:"required"`
	Description   string `form:"description"`
	Price         string `form:"price" validate:"required"`
	OriginalPrice string `form:"original_price"`
	Stock         string `form:"stock"`
	IsNew         string `form:"is_new"`
	IsBestSeller  string `form:"is_best_seller"`
	Categories    string `form:"categories"`
}

// UpdateProductRequest is the admin partial-update payload. Pointer fields
// distinguish "absent" from zero values; a non-nil Categories triggers a
// full replacement of the association set.
type UpdateProductRequest struct {
	Name          *string   `form:"name" json:"name"`
	Description   *string   `form:"description" json:"description"`
	Price         *string   `form:"price" json:"price"`
	OriginalPrice *string   `form:"original_price" json:"original_price"`
	Stock         *float64  `form:"stock" json:"stock"`
	IsNew         *bool     `form:"is_new" json:"is_new"`
	IsBestSeller  *bool     `form:"is_best_seller" json:"is_best_seller"`
	Categories    *[]string `form:"-" json:"categories"`
}

// DecrementStockRequest is the trusted-client stock decrement payload.
type DecrementStockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// CartItem is one transient client-side cart line carried into checkout.
// Quantity 0 drops the line.
type CartItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity" binding:"gte=0"`
	Notes     string  `json:"notes"`
}

// CheckoutRequest composes an order from cart lines plus delivery details.
type CheckoutRequest struct {
	Items        []CartItem `json:"items" binding:"required,min=1,dive"`
	CustomerName string     `json:"customer_name" binding:"required"`
	Address      string     `json:"address"`
	Extras       float64    `json:"extras" binding:"gte=0"`
	Delivery     bool       `json:"delivery"`
}

// CheckoutResponse carries the computed totals and the messaging deep link
// the storefront opens to hand the order off.
type CheckoutResponse struct {
	Subtotal    float64 `json:"subtotal"`
	Extras      float64 `json:"extras"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
	MessageLink string  `json:"message_link"`
}
