package orders

import (
	"errors"
	"fmt"
)

// Address is one corner of the checkout form. The zero value is an
// incomplete address.
type Address struct {
	Zip    string `json:"zip"`
	City   string `json:"city"`
	Street string `json:"street"`
}

// Format renders the address the way it is stored on the order row.
func (a Address) Format() string {
	return fmt.Sprintf("%s, %s, %s", a.Zip, a.City, a.Street)
}

func (a Address) complete() bool {
	return a.Zip != "" && a.City != "" && a.Street != ""
}

// CartItem is one line of the submitted cart. ProductName, Price and
// Subtotal are whatever the client submitted; they become the snapshot
// stored on the order item.
type CartItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       uint   `json:"price"`
	Quantity    uint   `json:"quantity"`
	Subtotal    uint   `json:"subtotal"`
}

// Checkout is the full order submission as received from the client.
type Checkout struct {
	Total         uint       `json:"total"`
	Billing       Address    `json:"billing"`
	Shipping      Address    `json:"shipping"`
	PaymentMethod string     `json:"payment_method"`
	GuestEmail    string     `json:"guest_email"`
	Cart          []CartItem `json:"cart"`
}

var (
	ErrIdentityRequired          = errors.New("Login or a guest email is required.")
	ErrInvalidPaymentMethod      = errors.New("Invalid payment method.")
	ErrEmptyCart                 = errors.New("The cart is empty.")
	ErrIncompleteBillingAddress  = errors.New("The billing address is incomplete.")
	ErrIncompleteShippingAddress = errors.New("The shipping address is incomplete.")
)

// InsufficientStockError reports the first product whose remaining stock
// could not cover the requested quantity.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for this product: %s", e.Product)
}

// Validate re-checks the checkout the client already validated, in a
// fixed rule order, and returns the first failing rule. It has no side
// effects.
func Validate(co Checkout, userID *uint) error {
	if userID == nil && co.GuestEmail == "" {
		return ErrIdentityRequired
	}
	if co.PaymentMethod != "cash" && co.PaymentMethod != "card" {
		return ErrInvalidPaymentMethod
	}
	if len(co.Cart) == 0 {
		return ErrEmptyCart
	}
	if !co.Billing.complete() {
		return ErrIncompleteBillingAddress
	}
	if co.Shipping != co.Billing && !co.Shipping.complete() {
		return ErrIncompleteShippingAddress
	}
	return nil
}

// IsValidationError reports whether err is one of the checkout rule
// failures, which map to a 400 rather than a 500.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrIdentityRequired) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrIncompleteBillingAddress) ||
		errors.Is(err, ErrIncompleteShippingAddress)
}
