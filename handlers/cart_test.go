package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/models"
)

func TestJoinCart(t *testing.T) {
	p1 := primitive.NewObjectID()
	gone := primitive.NewObjectID()
	now := time.Now()

	cart := []models.CartItem{
		{ProductID: p1, Quantity: 2, AddedAt: now},
		{ProductID: p1, Quantity: 1, AddedAt: now}, // duplicate line, never merged
		{ProductID: gone, Quantity: 3, AddedAt: now},
	}
	products := map[primitive.ObjectID]models.Product{
		p1: {ID: p1, Name: "Keyboard", Price: 49.5, Category: "peripherals"},
	}

	lines := joinCart(cart, products)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3 (duplicates preserved)", len(lines))
	}

	if lines[0].Name != "Keyboard" || lines[0].Price != 49.5 || lines[0].Category != "peripherals" {
		t.Errorf("lines[0] display fields = %+v", lines[0])
	}
	if lines[0].Quantity != 2 || lines[1].Quantity != 1 {
		t.Errorf("quantities = %d, %d, want 2, 1", lines[0].Quantity, lines[1].Quantity)
	}

	// A reference to a product that no longer resolves keeps its id and
	// quantity with empty display fields.
	if lines[2].ProductID != gone || lines[2].Name != "" || lines[2].Quantity != 3 {
		t.Errorf("lines[2] = %+v", lines[2])
	}
}

func TestJoinCartEmpty(t *testing.T) {
	lines := joinCart(nil, nil)
	if lines == nil || len(lines) != 0 {
		t.Errorf("joinCart(nil, nil) = %v, want empty non-nil slice", lines)
	}
}
