package handlers

import (
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-backend/apperrors"
	"storefront-backend/database"
	"storefront-backend/models"
	"storefront-backend/utils"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// SignUp creates a user account. The response carries public fields
// only; login is a separate step and no token is issued here.
func SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.Respond(c, apperrors.Validationf("name, email and password are required"))
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid email format"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	err := database.Users().FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		return apperrors.Respond(c, apperrors.Conflictf("email already registered"))
	}
	if err != mongo.ErrNoDocuments {
		return apperrors.Respond(c, apperrors.Internalf("failed to check existing users"))
	}

	hashed, err := utils.HashPassword(req.Password, cfg.BcryptCost)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to process password"))
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		Role:      models.NormalizeRole(req.Role),
		Phone:     req.Phone,
		Cart:      []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to create user"))
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a signed token carrying
// {id, role}. Unknown email and wrong password return the same
// message so accounts cannot be enumerated.
func Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Respond(c, apperrors.Validationf("invalid request format"))
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.Respond(c, apperrors.Validationf("email and password are required"))
	}

	ctx, cancel := opCtx()
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil || !utils.CheckPassword(user.Password, req.Password) {
		return apperrors.Respond(c, apperrors.Authf("invalid email or password"))
	}

	token, err := utils.GenerateJWT(cfg, user.ID.Hex(), user.Role)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internalf("failed to generate token"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"token":   token,
		"role":    user.Role,
	})
}
