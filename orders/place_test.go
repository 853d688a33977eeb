package orders

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webshop/models"
)

func checkoutFor(product models.Product, quantity uint) Checkout {
	return Checkout{
		Total:         product.Price * quantity,
		Billing:       completeAddress(),
		Shipping:      completeAddress(),
		PaymentMethod: "card",
		Cart: []CartItem{
			{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    quantity,
				Subtotal:    product.Price * quantity,
			},
		},
	}
}

func TestPlaceCommitsOrderItemsAndStock(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	product := createProduct(t, db, "Coffee mug", 1000, 5)

	orderID, err := Place(db, checkoutFor(product, 2), &user.ID)
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").First(&order, orderID).Error)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)
	assert.Nil(t, order.GuestEmail)
	assert.Equal(t, uint(2000), order.Total)
	assert.Equal(t, "1111, Budapest, Fő utca 1.", order.BillingAddress)
	assert.Equal(t, "card", order.PaymentMethod)

	require.Len(t, order.OrderItems, 1)
	item := order.OrderItems[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Coffee mug", item.ProductName)
	assert.Equal(t, uint(1000), item.Price)
	assert.Equal(t, uint(2), item.Quantity)
	assert.Equal(t, uint(2000), item.Subtotal)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, uint(3), reloaded.Stock)
}

func TestPlaceGuestOrderRecordsGuestEmail(t *testing.T) {
	db := newTestDB(t)
	product := createProduct(t, db, "Teapot", 4500, 2)

	co := checkoutFor(product, 1)
	co.GuestEmail = "guest@example.com"

	orderID, err := Place(db, co, nil)
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	assert.Nil(t, order.UserID)
	require.NotNil(t, order.GuestEmail)
	assert.Equal(t, "guest@example.com", *order.GuestEmail)
}

func TestPlaceInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	plenty := createProduct(t, db, "Plate", 500, 10)
	scarce := createProduct(t, db, "Rare vase", 9000, 1)

	co := Checkout{
		Total:         1000 + 18000,
		Billing:       completeAddress(),
		Shipping:      completeAddress(),
		PaymentMethod: "cash",
		Cart: []CartItem{
			{ProductID: plenty.ID, ProductName: plenty.Name, Price: 500, Quantity: 2, Subtotal: 1000},
			{ProductID: scarce.ID, ProductName: scarce.Name, Price: 9000, Quantity: 2, Subtotal: 18000},
		},
	}

	_, err := Place(db, co, &user.ID)
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Rare vase", stockErr.Product)
	assert.Contains(t, err.Error(), "Rare vase")

	// Nothing from the failed order may survive, including the
	// decrement that already succeeded for the first product.
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var reloadedPlenty, reloadedScarce models.Product
	require.NoError(t, db.First(&reloadedPlenty, plenty.ID).Error)
	require.NoError(t, db.First(&reloadedScarce, scarce.ID).Error)
	assert.Equal(t, uint(10), reloadedPlenty.Stock)
	assert.Equal(t, uint(1), reloadedScarce.Stock)
}

func TestPlaceExactRemainingStockSucceeds(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	product := createProduct(t, db, "Last one", 700, 3)

	_, err := Place(db, checkoutFor(product, 3), &user.ID)
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Zero(t, reloaded.Stock)

	// The shelf is empty now.
	_, err = Place(db, checkoutFor(product, 1), &user.ID)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
}

func TestPlaceSnapshotSurvivesProductEdit(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	product := createProduct(t, db, "Original name", 1000, 5)

	orderID, err := Place(db, checkoutFor(product, 1), &user.ID)
	require.NoError(t, err)

	err = db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":  "Renamed",
		"price": 9999,
	}).Error
	require.NoError(t, err)

	var item models.OrderItem
	require.NoError(t, db.First(&item, "order_id = ?", orderID).Error)
	assert.Equal(t, "Original name", item.ProductName)
	assert.Equal(t, uint(1000), item.Price)
}

func TestPlaceConcurrentCheckoutsForLastStock(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	product := createProduct(t, db, "Contested", 1200, 4)

	const buyers = 4
	errs := make([]error, buyers)

	var wg sync.WaitGroup
	gate := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-gate
			// Everyone wants the whole remaining stock.
			_, errs[idx] = Place(db, checkoutFor(product, 4), &user.ID)
		}(i)
	}
	close(gate)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one checkout may win the last stock")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Zero(t, reloaded.Stock)

	// Losers must leave no rows behind.
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 1, orderCount)
	assert.EqualValues(t, 1, itemCount)
}
