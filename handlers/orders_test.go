package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/apperrors"
	"storefront-backend/models"
)

func kindOf(t *testing.T, err error) apperrors.Kind {
	t.Helper()
	var e *apperrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not an apperrors.Error", err)
	}
	return e.Kind
}

func TestBuildOrderItems(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 10, Stock: 5},
		p2: {ID: p2, Name: "Mouse", Price: 24.99, Stock: 2},
	}

	items, total, err := buildOrderItems([]placeOrderItem{
		{ProductID: p1.Hex(), Quantity: 2},
		{ProductID: p2.Hex(), Quantity: 1},
	}, products)
	if err != nil {
		t.Fatalf("buildOrderItems: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Subtotal != 20 {
		t.Errorf("items[0].Subtotal = %v, want 20", items[0].Subtotal)
	}
	if items[0].ProductName != "Keyboard" || items[0].Price != 10 {
		t.Errorf("items[0] snapshot = %q/%v", items[0].ProductName, items[0].Price)
	}
	if total != 44.99 {
		t.Errorf("total = %v, want 44.99", total)
	}
}

func TestBuildOrderItemsInsufficientStock(t *testing.T) {
	p1 := primitive.NewObjectID()
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 10, Stock: 1},
	}

	_, _, err := buildOrderItems([]placeOrderItem{{ProductID: p1.Hex(), Quantity: 2}}, products)
	if err == nil {
		t.Fatal("expected error for quantity above stock")
	}
	if kindOf(t, err) != apperrors.KindConflict {
		t.Errorf("kind = %v, want conflict", kindOf(t, err))
	}
}

func TestBuildOrderItemsMissingProduct(t *testing.T) {
	missing := primitive.NewObjectID()

	_, _, err := buildOrderItems([]placeOrderItem{{ProductID: missing.Hex(), Quantity: 1}}, nil)
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if kindOf(t, err) != apperrors.KindNotFound {
		t.Errorf("kind = %v, want not found", kindOf(t, err))
	}
	if want := "product " + missing.Hex() + " not found"; err.Error() != want {
		t.Errorf("message = %q, want it to name the missing id", err.Error())
	}
}

func TestBuildOrderItemsBadQuantity(t *testing.T) {
	p1 := primitive.NewObjectID()
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 10, Stock: 5},
	}

	_, _, err := buildOrderItems([]placeOrderItem{{ProductID: p1.Hex(), Quantity: 0}}, products)
	if err == nil || kindOf(t, err) != apperrors.KindValidation {
		t.Errorf("expected validation error for zero quantity, got %v", err)
	}
}

func TestBuildOrderItemsFailsOnFirstBadItemInOrder(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 10, Stock: 0},
		p2: {ID: p2, Name: "Mouse", Price: 5, Stock: 0},
	}

	_, _, err := buildOrderItems([]placeOrderItem{
		{ProductID: p1.Hex(), Quantity: 1},
		{ProductID: p2.Hex(), Quantity: 1},
	}, products)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "insufficient stock for Keyboard"; err.Error() != want {
		t.Errorf("message = %q, want first item's error", err.Error())
	}
}

func TestCanCancel(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	order := models.Order{UserID: owner, OrderStatus: models.OrderStatusPending}

	if err := canCancel(order, owner, models.RoleUser); err != nil {
		t.Errorf("owner cancel: %v, want nil", err)
	}
	if err := canCancel(order, stranger, models.RoleAdmin); err != nil {
		t.Errorf("admin cancel: %v, want nil", err)
	}

	err := canCancel(order, stranger, models.RoleUser)
	if err == nil || kindOf(t, err) != apperrors.KindForbidden {
		t.Errorf("stranger cancel: %v, want forbidden", err)
	}

	delivered := models.Order{UserID: owner, OrderStatus: models.OrderStatusDelivered}
	err = canCancel(delivered, owner, models.RoleUser)
	if err == nil || kindOf(t, err) != apperrors.KindConflict {
		t.Errorf("cancel after delivery: %v, want conflict", err)
	}

	// Ownership is checked before the delivered state: a stranger never
	// learns whether the order is final.
	err = canCancel(delivered, stranger, models.RoleUser)
	if err == nil || kindOf(t, err) != apperrors.KindForbidden {
		t.Errorf("stranger cancel of delivered order: %v, want forbidden", err)
	}
}

func TestTrackingOrderStatus(t *testing.T) {
	if got := trackingOrderStatus(models.TrackingDelivered); got != models.OrderStatusDelivered {
		t.Errorf("delivered maps to %q", got)
	}
	for _, s := range []string{models.TrackingNotShipped, models.TrackingInTransit, models.TrackingOutForDelivery} {
		if got := trackingOrderStatus(s); got != models.OrderStatusShipped {
			t.Errorf("%q maps to %q, want shipped", s, got)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := round2(10.0 / 3); got != 3.33 {
		t.Errorf("round2(10/3) = %v", got)
	}
	if got := round2(3 * 33.33); got != 99.99 {
		t.Errorf("round2(3*33.33) = %v", got)
	}
}
