package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"storefront-backend/apperrors"
	"storefront-backend/database"
	"storefront-backend/logger"
	"storefront-backend/models"
)

type placeOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	Items           []placeOrderItem `json:"items"`
	DeliveryAddress string           `json:"deliveryAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// buildOrderItems validates every requested item against the fetched
// products, in input order, and produces the snapshot line-items and
// order total. It performs no writes: placement only mutates stock
// after the whole order has passed validation.
func buildOrderItems(items []placeOrderItem, products map[primitive.ObjectID]models.Product) ([]models.OrderItem, float64, error) {
	orderItems := make([]models.OrderItem, 0, len(items))
	total := 0.0

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, 0, apperrors.Validationf("quantity must be at least 1")
		}
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, 0, apperrors.Validationf("invalid product id %s", item.ProductID)
		}
		product, ok := products[id]
		if !ok {
			return nil, 0, apperrors.NotFoundf("product %s not found", item.ProductID)
		}
		if product.Stock < item.Quantity {
			return nil, 0, apperrors.Conflictf("insufficient stock for %s", product.Name)
		}

		subtotal := round2(product.Price * float64(item.Quantity))
		total = round2(total + subtotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   id,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
			Subtotal:    subtotal,
		})
	}

	return orderItems, total, nil
}

// PlaceOrder creates an order in two phases: validate everything with
// no writes, then decrement stock with conditional atomic updates. A
// decrement that matches nothing means a concurrent order drained the
// stock first; already-applied decrements are restored and the order
// fails. The whole cart is cleared after the order is recorded.
func PlaceOrder(c echo.Context) error {
	userID, err := resolveUserID(c, "")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if len(req.Items) == 0 {
		return apperrors.Respond(c, apperrors.Validationf("order must contain at least one item"))
	}
	if req.DeliveryAddress == "" || req.PaymentMethod == "" {
		return apperrors.Respond(c, apperrors.Validationf("deliveryAddress and paymentMethod are required"))
	}
	if !models.ValidPaymentMethods[req.PaymentMethod] {
		return apperrors.Respond(c, apperrors.Validationf("unsupported payment method %s", req.PaymentMethod))
	}

	ctx, cancel := opCtx()
	defer cancel()

	var ids []primitive.ObjectID
	for _, item := range req.Items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return apperrors.Respond(c, apperrors.Validationf("invalid product id %s", item.ProductID))
		}
		ids = append(ids, id)
	}
	products, err := database.ProductsByID(ctx, ids)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch products"))
	}

	orderItems, total, err := buildOrderItems(req.Items, products)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	// Conditional decrements: the stock check and the write are one
	// round-trip, so two concurrent orders cannot both drain the same
	// units.
	for i, item := range orderItems {
		res, err := database.Products().UpdateOne(
			ctx,
			bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
			bson.M{"$inc": bson.M{"stock": -item.Quantity}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil || res.MatchedCount == 0 {
			restoreStock(ctx, orderItems[:i])
			if err != nil {
				return apperrors.Respond(c, apperrors.Internalf("failed to update stock"))
			}
			return apperrors.Respond(c, apperrors.Conflictf("insufficient stock for %s", item.ProductName))
		}
	}

	now := time.Now()
	order := models.Order{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		Items:            orderItems,
		TotalAmount:      total,
		DeliveryAddress:  req.DeliveryAddress,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    models.PaymentStatusPending,
		OrderStatus:      models.OrderStatusPending,
		DeliveryTracking: models.NewDeliveryTracking(now),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := database.Orders().InsertOne(ctx, order); err != nil {
		restoreStock(ctx, orderItems)
		return apperrors.Respond(c, apperrors.Internalf("failed to create order"))
	}

	// The entire cart is cleared, not just the ordered items. A failure
	// here leaves the order in place.
	_, err = database.Users().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"cart": []models.CartItem{}, "updatedAt": now}},
	)
	if err != nil {
		logger.L.Warn("failed to clear cart after order placement",
			zap.String("orderId", order.ID.Hex()),
			zap.String("userId", userID.Hex()),
			zap.Error(err))
	}

	userDisplay := map[string]string{}
	if users, err := database.UsersByID(ctx, []primitive.ObjectID{userID}); err == nil {
		if u, ok := users[userID]; ok {
			userDisplay["name"] = u.Name
			userDisplay["email"] = u.Email
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "order placed successfully",
		"order":   order,
		"user":    userDisplay,
	})
}

func restoreStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		_, err := database.Products().UpdateOne(
			ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"stock": item.Quantity}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil {
			logger.L.Error("failed to restore stock",
				zap.String("productId", item.ProductID.Hex()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

// ListUserOrders returns the caller's orders, newest first. Each item
// carries the product name and price snapshotted at placement time.
func ListUserOrders(c echo.Context) error {
	userID, err := resolveUserID(c, "")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	ctx, cancel := opCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Orders().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch orders"))
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to decode orders"))
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "orders fetched successfully",
		"orders":  orders,
	})
}

// canCancel enforces the cancellation gate: only the owner or an admin
// may cancel, and delivered orders are final.
func canCancel(order models.Order, requesterID primitive.ObjectID, role string) error {
	if order.UserID != requesterID && role != models.RoleAdmin {
		return apperrors.Forbiddenf("not allowed to cancel this order")
	}
	if order.OrderStatus == models.OrderStatusDelivered {
		return apperrors.Conflictf("delivered orders cannot be cancelled")
	}
	return nil
}

// CancelOrder restores stock for every item and deletes the order.
// Payment state is not reversed.
func CancelOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid order id"))
	}

	requesterID, err := resolveUserID(c, "")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	ctx, cancel := opCtx()
	defer cancel()

	var order models.Order
	err = database.Orders().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.Respond(c, apperrors.NotFoundf("order not found"))
		}
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch order"))
	}

	if err := canCancel(order, requesterID, requesterRole(c)); err != nil {
		return apperrors.Respond(c, err)
	}

	restoreStock(ctx, order.Items)

	if _, err := database.Orders().DeleteOne(ctx, bson.M{"_id": orderID}); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to delete order"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "order cancelled successfully",
	})
}

// trackingOrderStatus is the coarse mapping from tracking status to
// order status: delivered stays delivered, everything else reads as
// shipped. Confirmed/processing/cancelled cannot be expressed through
// this path.
func trackingOrderStatus(trackingStatus string) string {
	if trackingStatus == models.TrackingDelivered {
		return models.OrderStatusDelivered
	}
	return models.OrderStatusShipped
}

type updateTrackingRequest struct {
	OrderID           string `json:"orderId"`
	Status            string `json:"status"`
	Location          string `json:"location"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// UpdateDeliveryTracking sets the tracking sub-document and overwrites
// the order status with the coarse mapping. Admin only.
func UpdateDeliveryTracking(c echo.Context) error {
	var req updateTrackingRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.Status == "" {
		return apperrors.Respond(c, apperrors.Validationf("status is required"))
	}

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid order id"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	now := time.Now()
	res, err := database.Orders().UpdateOne(
		ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{
			"deliveryTracking.status":            req.Status,
			"deliveryTracking.location":          req.Location,
			"deliveryTracking.estimatedDelivery": req.EstimatedDelivery,
			"deliveryTracking.updatedAt":         now,
			"orderStatus":                        trackingOrderStatus(req.Status),
			"updatedAt":                          now,
		}},
	)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to update tracking"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("order not found"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "delivery tracking updated successfully",
	})
}

type paymentProjection struct {
	OrderID       primitive.ObjectID `json:"orderId"`
	UserID        primitive.ObjectID `json:"userId"`
	TotalAmount   float64            `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
	PaymentStatus string             `json:"paymentStatus"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ListPayments projects every order to its payment fields. Admin only.
func ListPayments(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := database.Orders().Find(ctx, bson.M{})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch orders"))
	}
	defer cursor.Close(ctx)

	payments := []paymentProjection{}
	for cursor.Next(ctx) {
		var o models.Order
		if err := cursor.Decode(&o); err != nil {
			return apperrors.Respond(c, apperrors.Internalf("failed to decode order"))
		}
		payments = append(payments, paymentProjection{
			OrderID:       o.ID,
			UserID:        o.UserID,
			TotalAmount:   o.TotalAmount,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
			CreatedAt:     o.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "payments fetched successfully",
		"payments": payments,
	})
}

type trackingProjection struct {
	OrderID          primitive.ObjectID      `json:"orderId"`
	UserID           primitive.ObjectID      `json:"userId"`
	DeliveryAddress  string                  `json:"deliveryAddress"`
	DeliveryTracking models.DeliveryTracking `json:"deliveryTracking"`
	OrderStatus      string                  `json:"orderStatus"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// ListDeliveryTracking projects every order to its tracking fields.
// Admin only.
func ListDeliveryTracking(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := database.Orders().Find(ctx, bson.M{})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch orders"))
	}
	defer cursor.Close(ctx)

	tracking := []trackingProjection{}
	for cursor.Next(ctx) {
		var o models.Order
		if err := cursor.Decode(&o); err != nil {
			return apperrors.Respond(c, apperrors.Internalf("failed to decode order"))
		}
		tracking = append(tracking, trackingProjection{
			OrderID:          o.ID,
			UserID:           o.UserID,
			DeliveryAddress:  o.DeliveryAddress,
			DeliveryTracking: o.DeliveryTracking,
			OrderStatus:      o.OrderStatus,
			CreatedAt:        o.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "delivery tracking fetched successfully",
		"tracking": tracking,
	})
}
