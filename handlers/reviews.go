package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-backend/apperrors"
	"storefront-backend/database"
	"storefront-backend/models"
)

// averageRating is the cached mean of all review ratings, rounded to
// two decimals. Zero when there are no reviews.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*100) / 100
}

type postReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// PostReview appends a review and recomputes the cached aggregates in
// the same update. UserName is snapshotted from the user record at post
// time. One user may review the same product any number of times.
func PostReview(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
	}

	userID, err := resolveUserID(c, "")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req postReviewRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.Rating < 1 || req.Rating > 5 {
		return apperrors.Respond(c, apperrors.Validationf("rating must be between 1 and 5"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	var product models.Product
	err = database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.Respond(c, apperrors.NotFoundf("product not found"))
		}
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch product"))
	}

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return apperrors.Respond(c, apperrors.NotFoundf("user not found"))
	}

	review := models.Review{
		UserID:    userID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	updated := append(product.Reviews, review)
	avg := averageRating(updated)

	_, err = database.Products().UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set": bson.M{
				"averageRating": avg,
				"totalReviews":  len(updated),
				"updatedAt":     time.Now(),
			},
		},
	)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to save review"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":       "review posted successfully",
		"review":        review,
		"averageRating": avg,
		"totalReviews":  len(updated),
	})
}

type taggedReview struct {
	ProductID   primitive.ObjectID `json:"productId"`
	ProductName string             `json:"productName"`
	models.Review
}

// ListAllReviews flattens every product's reviews into one sequence,
// each entry tagged with its product. Admin only.
func ListAllReviews(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := database.Products().Find(ctx, bson.M{})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch products"))
	}
	defer cursor.Close(ctx)

	reviews := []taggedReview{}
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return apperrors.Respond(c, apperrors.Internalf("failed to decode product"))
		}
		for _, r := range p.Reviews {
			reviews = append(reviews, taggedReview{ProductID: p.ID, ProductName: p.Name, Review: r})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "reviews fetched successfully",
		"reviews": reviews,
	})
}
