package handlers

import (
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

type productSummary struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Price         float64            `json:"price"`
	Description   string             `json:"description,omitempty"`
	Category      string             `json:"category,omitempty"`
	Stock         int                `json:"stock"`
	AverageRating float64            `json:"averageRating"`
	TotalReviews  int                `json:"totalReviews"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// ListProducts returns the whole catalog in summary projection.
func ListProducts(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := database.Products().Find(ctx, bson.M{})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch products"))
	}
	defer cursor.Close(ctx)

	summaries := []productSummary{}
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return apperrors.Respond(c, apperrors.Internalf("failed to decode product"))
		}
		summaries = append(summaries, productSummary{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			Description:   p.Description,
			Category:      p.Category,
			Stock:         p.Stock,
			AverageRating: p.AverageRating,
			TotalReviews:  p.TotalReviews,
			CreatedAt:     p.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "products fetched successfully",
		"products": summaries,
	})
}

// GetProduct returns one product in full, reviews included.
func GetProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
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

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "product fetched successfully",
		"product": product,
	})
}

type addProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
}

// AddProduct creates a catalog entry. Admin only.
func AddProduct(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.Name == "" || req.Price == nil {
		return apperrors.Respond(c, apperrors.Validationf("name and price are required"))
	}
	if *req.Price < 0 {
		return apperrors.Respond(c, apperrors.Validationf("price must not be negative"))
	}
	if req.Stock < 0 {
		return apperrors.Respond(c, apperrors.Validationf("stock must not be negative"))
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := opCtx()
	defer cancel()

	if _, err := database.Products().InsertOne(ctx, product); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to create product"))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "product added successfully",
		"product": product,
	})
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
}

// UpdateProduct partially updates the provided fields. Admin only.
func UpdateProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apperrors.Respond(c, apperrors.Validationf("price must not be negative"))
		}
		set["price"] = *req.Price
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return apperrors.Respond(c, apperrors.Validationf("stock must not be negative"))
		}
		set["stock"] = *req.Stock
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := database.Products().UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": set})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to update product"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("product not found"))
	}

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch updated product"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "product updated successfully",
		"product": product,
	})
}

type assignAdminRequest struct {
	ProductID string `json:"productId"`
	AdminID   string `json:"adminId"`
}

// AssignAdmin sets a product's assigned admin. The assignee's role is
// not verified. Admin only.
func AssignAdmin(c echo.Context) error {
	var req assignAdminRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.ProductID == "" || req.AdminID == "" {
		return apperrors.Respond(c, apperrors.Validationf("productId and adminId are required"))
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
	}
	adminID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid admin id"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := database.Products().UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"assignedAdmin": adminID, "updatedAt": time.Now()}},
	)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to assign admin"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("product not found"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "admin assigned successfully",
	})
}
