package orders

import (
	"gorm.io/gorm"

	"webshop/models"
)

// Place persists the order header, its line items and the stock
// decrements as one transaction. Either all of it commits or none of it
// does; the first product without enough stock aborts the whole order.
//
// The checkout must already have passed Validate.
func Place(db *gorm.DB, co Checkout, userID *uint) (uint, error) {
	var orderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			UserID:          userID,
			Total:           co.Total,
			BillingAddress:  co.Billing.Format(),
			ShippingAddress: co.Shipping.Format(),
			PaymentMethod:   co.PaymentMethod,
		}
		if userID == nil {
			guestEmail := co.GuestEmail
			order.GuestEmail = &guestEmail
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, len(co.Cart))
		for i, item := range co.Cart {
			orderItems[i] = models.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Price:       item.Price,
				Quantity:    item.Quantity,
				Subtotal:    item.Subtotal,
			}
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		for _, item := range co.Cart {
			if err := reserveStock(tx, item); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return orderID, nil
}

// reserveStock decrements the product's stock only when enough remains.
// The check and the decrement are one statement, so two checkouts racing
// for the last unit can never both win; the loser simply affects zero
// rows.
func reserveStock(tx *gorm.DB, item CartItem) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &InsufficientStockError{Product: item.ProductName}
	}
	return nil
}
