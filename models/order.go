package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	TrackingNotShipped     = "not_shipped"
	TrackingInTransit      = "in_transit"
	TrackingOutForDelivery = "out_for_delivery"
	TrackingDelivered      = "delivered"
)

// ValidPaymentMethods are the accepted values for Order.PaymentMethod.
var ValidPaymentMethods = map[string]bool{
	"credit_card": true,
	"debit_card":  true,
	"upi":         true,
	"net_banking": true,
	"wallet":      true,
}

// OrderItem snapshots the product at placement time. ProductName and
// Price are copies, immune to later product edits.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Subtotal    float64            `bson:"subtotal" json:"subtotal"`
}

type DeliveryTracking struct {
	Status            string    `bson:"status" json:"status"`
	Location          string    `bson:"location,omitempty" json:"location,omitempty"`
	EstimatedDelivery string    `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	Items            []OrderItem        `bson:"items" json:"items"`
	TotalAmount      float64            `bson:"totalAmount" json:"totalAmount"`
	DeliveryAddress  string             `bson:"deliveryAddress" json:"deliveryAddress"`
	PaymentMethod    string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus    string             `bson:"paymentStatus" json:"paymentStatus"`
	OrderStatus      string             `bson:"orderStatus" json:"orderStatus"`
	DeliveryTracking DeliveryTracking   `bson:"deliveryTracking" json:"deliveryTracking"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewDeliveryTracking returns the tracking sub-document every order
// starts with.
func NewDeliveryTracking(now time.Time) DeliveryTracking {
	return DeliveryTracking{
		Status:    TrackingNotShipped,
		UpdatedAt: now,
	}
}
