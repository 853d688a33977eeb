package orders

import (
	"time"

	"gorm.io/gorm"

	"webshop/models"
)

type PastOrderItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       uint   `json:"price"`
	Quantity    uint   `json:"quantity"`
	Subtotal    uint   `json:"subtotal"`
}

type PastOrder struct {
	ID              uint            `json:"id"`
	Total           uint            `json:"total"`
	BillingAddress  string          `json:"billing_address"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	PaymentMethod   string          `json:"payment_method"`
	Items           []PastOrderItem `json:"items"`
}

// History returns the user's orders, newest first, each with its line
// items nested. Orders and items are fetched in two reads inside one
// transaction, so an order is never returned without its items.
func History(db *gorm.DB, userID uint) ([]PastOrder, error) {
	pastOrders := []PastOrder{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var orderRows []models.Order
		err := tx.
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orderRows).
			Error
		if err != nil {
			return err
		}
		if len(orderRows) == 0 {
			return nil
		}

		orderIDs := make([]uint, len(orderRows))
		for i, order := range orderRows {
			orderIDs[i] = order.ID
		}

		var itemRows []models.OrderItem
		err = tx.Where("order_id IN ?", orderIDs).Find(&itemRows).Error
		if err != nil {
			return err
		}

		itemsByOrder := make(map[uint][]PastOrderItem, len(orderRows))
		for _, item := range itemRows {
			itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], PastOrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Price:       item.Price,
				Quantity:    item.Quantity,
				Subtotal:    item.Subtotal,
			})
		}

		for _, order := range orderRows {
			items := itemsByOrder[order.ID]
			if items == nil {
				items = []PastOrderItem{}
			}
			pastOrders = append(pastOrders, PastOrder{
				ID:              order.ID,
				Total:           order.Total,
				BillingAddress:  order.BillingAddress,
				ShippingAddress: order.ShippingAddress,
				CreatedAt:       order.CreatedAt,
				PaymentMethod:   order.PaymentMethod,
				Items:           items,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pastOrders, nil
}
