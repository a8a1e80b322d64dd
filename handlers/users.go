package handlers

import (
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/apperrors"
	"storefront-backend/database"
	"storefront-backend/models"
)

type updateProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProfile partially updates the authenticated user's profile.
func UpdateProfile(c echo.Context) error {
	userID, err := resolveUserID(c, "")
	if err != nil {
		return apperrors.Respond(c, err)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return apperrors.Respond(c, apperrors.Validationf("invalid email format"))
		}
		set["email"] = req.Email
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Address != "" {
		set["address"] = req.Address
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := database.Users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to update profile"))
	}
	if res.MatchedCount == 0 {
		return apperrors.Respond(c, apperrors.NotFoundf("user not found"))
	}

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch updated profile"))
	}
	user.Password = ""

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    user,
	})
}

type userWithCart struct {
	models.User
	Cart []cartLine `json:"cart"`
}

// ListUsers returns every user with passwords excluded and cart
// references joined with product display fields. Admin only.
func ListUsers(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := database.Users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to fetch users"))
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to decode users"))
	}

	var productIDs []primitive.ObjectID
	for _, u := range users {
		for _, item := range u.Cart {
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := database.ProductsByID(ctx, productIDs)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to join cart products"))
	}

	out := make([]userWithCart, 0, len(users))
	for _, u := range users {
		out = append(out, userWithCart{User: u, Cart: joinCart(u.Cart, products)})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "users fetched successfully",
		"users":   out,
	})
}

// GetUser returns one user, cart joined with product display fields.
// Admin only.
func GetUser(c echo.Context) error {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid user id"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	if err := database.Users().FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&user); err != nil {
		return apperrors.Respond(c, apperrors.NotFoundf("user not found"))
	}

	var productIDs []primitive.ObjectID
	for _, item := range user.Cart {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := database.ProductsByID(ctx, productIDs)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to join cart products"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "user fetched successfully",
		"user":    userWithCart{User: user, Cart: joinCart(user.Cart, products)},
	})
}

// UserStats reports aggregate account counts. Admin only. An active
// cart means at least one line-item present.
func UserStats(c echo.Context) error {
	ctx, cancel := opCtx()
	defer cancel()

	total, err := database.Users().CountDocuments(ctx, bson.M{})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to count users"))
	}
	admins, err := database.Users().CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to count admins"))
	}
	activeCarts, err := database.Users().CountDocuments(ctx, bson.M{"cart.0": bson.M{"$exists": true}})
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to count active carts"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "user stats fetched successfully",
		"stats": map[string]int64{
			"totalUsers":          total,
			"adminCount":          admins,
			"regularUsers":        total - admins,
			"usersWithActiveCart": activeCarts,
		},
	})
}
