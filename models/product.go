package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded on the product. UserName is a snapshot taken when
// the review is posted and is never re-synced with the user record.
type Review struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Price         float64             `bson:"price" json:"price"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Category      string              `bson:"category,omitempty" json:"category,omitempty"`
	Stock         int                 `bson:"stock" json:"stock"`
	AssignedAdmin *primitive.ObjectID `bson:"assignedAdmin,omitempty" json:"assignedAdmin,omitempty"`
	Reviews       []Review            `bson:"reviews" json:"reviews"`
	AverageRating float64             `bson:"averageRating" json:"averageRating"`
	TotalReviews  int                 `bson:"totalReviews" json:"totalReviews"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
