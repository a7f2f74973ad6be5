package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"eshop-api/models"
	"eshop-api/store"
)

// userReadOptions excludes the password hash at the query level on every
// user read; the json:"-" tag on the model is the second line of defense.
func userReadOptions() store.GetOptions {
	return store.GetOptions{Omit: []string{"password_hash"}}
}

type registerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
	IsAdmin   bool   `json:"isAdmin"`
}

type userUpdateRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Street    *string `json:"street"`
	Apartment *string `json:"apartment"`
	Zip       *string `json:"zip"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (r userUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "name", r.Name)
	setField(fields, "email", r.Email)
	setField(fields, "phone", r.Phone)
	setField(fields, "street", r.Street)
	setField(fields, "apartment", r.Apartment)
	setField(fields, "zip", r.Zip)
	setField(fields, "city", r.City)
	setField(fields, "country", r.Country)
	setField(fields, "is_admin", r.IsAdmin)
	return fields
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (app *application) listUsers(c *gin.Context) {
	users, err := store.GetAll[models.User](app.db, userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, users)
}

func (app *application) getUser(c *gin.Context) {
	id := c.Param("id")
	if !hasIdentity(c) || (authUserID(c) != id && !isAdmin(c)) {
		respondError(c, http.StatusUnauthorized, CodeNotAuthorized, "You are not authorized.")
		return
	}
	user, err := store.GetByID[models.User](app.db, id, userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, user)
}

// registerUser backs both the public /register route and the admin-only
// POST /users route. The isAdmin flag in the payload is only honored when
// an admin is making the request.
func (app *application) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if req.Password == "" {
		respondError(c, http.StatusBadRequest, CodeValidationError, "No password given.")
		return
	}

	_, err := store.GetOne[models.User](app.db, store.GetOptions{
		Filter: map[string]any{"email": req.Email},
	})
	if err == nil {
		respondError(c, http.StatusConflict, CodeConflict, "User already exists with that e-mail.")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeUnknown, "Could not hash password")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
		IsAdmin:      req.IsAdmin && isAdmin(c),
	}
	saved, err := store.Save(app.db, &user, userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, saved)
}

func (app *application) updateUser(c *gin.Context) {
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	user, err := store.UpdateByID[models.User](app.db, c.Param("id"), req.fields(), userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, user)
}

func (app *application) deleteUser(c *gin.Context) {
	user, err := store.DeleteByID[models.User](app.db, c.Param("id"), userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, user)
}

func (app *application) countUsers(c *gin.Context) {
	count, err := store.Count[models.User](app.db, nil)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, count)
}

func (app *application) login(c *gin.Context) {
	if hasIdentity(c) {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Already logged in.")
		return
	}
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if req.Email == "" {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "E-mail not given.")
		return
	}
	if req.Password == "" {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "Password not given.")
		return
	}

	user, err := store.GetOne[models.User](app.db, store.GetOptions{
		Filter: map[string]any{"email": req.Email},
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found.")
			return
		}
		respondStoreError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Wrong password.")
		return
	}

	token, err := issueToken(app.cfg.JWTSecret, user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeUnknown, "Could not issue token")
		return
	}
	respondResult(c, http.StatusOK, gin.H{"user": user.Email, "token": token})
}

func (app *application) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if req.Email == "" {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "No e-mail given.")
		return
	}
	if req.NewPassword == "" {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "No new password given.")
		return
	}
	if req.CurrentPassword == "" {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "No current password given.")
		return
	}

	user, err := store.GetOne[models.User](app.db, store.GetOptions{
		Filter: map[string]any{"email": req.Email},
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "User not found.")
			return
		}
		respondStoreError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Wrong current password.")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.NewPassword)) == nil {
		respondError(c, http.StatusConflict, CodeConflict, "New password can not be the same as the current password.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeUnknown, "Could not hash password")
		return
	}
	updated, err := store.UpdateByID[models.User](app.db, user.ID, map[string]any{"password_hash": string(hash)}, userReadOptions())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, updated)
}
