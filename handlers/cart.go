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

// cartLine is a cart item joined with product display fields. Name,
// price and category come from the live product at read time.
type cartLine struct {
	ProductID primitive.ObjectID `json:"productId"`
	Name      string             `json:"name,omitempty"`
	Price     float64            `json:"price"`
	Category  string             `json:"category,omitempty"`
	Quantity  int                `json:"quantity"`
	AddedAt   time.Time          `json:"addedAt"`
}

func joinCart(cart []models.CartItem, products map[primitive.ObjectID]models.Product) []cartLine {
	lines := make([]cartLine, 0, len(cart))
	for _, item := range cart {
		line := cartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.AddedAt,
		}
		if p, ok := products[item.ProductID]; ok {
			line.Name = p.Name
			line.Price = p.Price
			line.Category = p.Category
		}
		lines = append(lines, line)
	}
	return lines
}

func joinedCartFor(userID primitive.ObjectID) ([]cartLine, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.NotFoundf("user not found")
		}
		return nil, apperrors.Internalf("failed to fetch user")
	}

	var productIDs []primitive.ObjectID
	for _, item := range user.Cart {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := database.ProductsByID(ctx, productIDs)
	if err != nil {
		return nil, apperrors.Internalf("failed to join cart products")
	}

	return joinCart(user.Cart, products), nil
}

type addToCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// AddToCart appends a line-item to the user's cart. Repeated adds for
// the same product create duplicate lines; stock is not checked here.
func AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.ProductID == "" || req.Quantity < 1 {
		return apperrors.Respond(c, apperrors.Validationf("productId and quantity are required"))
	}

	userID, err := resolveUserID(c, req.UserID)
	if err != nil {
		return apperrors.Respond(c, err)
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	err = database.Products().FindOne(ctx, bson.M{"_id": productID}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.Respond(c, apperrors.NotFoundf("product not found"))
		}
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch product"))
	}

	item := models.CartItem{
		ProductID: productID,
		Quantity:  req.Quantity,
		AddedAt:   time.Now(),
	}

	res, err := database.Users().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"cart": item},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to update cart"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("user not found"))
	}

	cart, err := joinedCartFor(userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "item added to cart",
		"cart":    cart,
	})
}

// RemoveFromCart removes every cart line matching the product. Removing
// a product that is not in the cart succeeds and changes nothing.
func RemoveFromCart(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid product id"))
	}

	userID, err := resolveUserID(c, c.QueryParam("userId"))
	if err != nil {
		return apperrors.Respond(c, err)
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := database.Users().UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"cart": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to update cart"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("user not found"))
	}

	cart, err := joinedCartFor(userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "item removed from cart",
		"cart":    cart,
	})
}

// GetCart returns the user's cart joined with product display fields.
func GetCart(c echo.Context) error {
	userID, err := resolveUserID(c, c.QueryParam("userId"))
	if err != nil {
		return apperrors.Respond(c, err)
	}

	cart, err := joinedCartFor(userID)
	if err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "cart fetched successfully",
		"cart":    cart,
	})
}
