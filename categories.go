package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/models"
	"eshop-api/store"
)

type categoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Image string `json:"image"`
}

type categoryUpdateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
	Image *string `json:"image"`
}

func (r categoryUpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "name", r.Name)
	setField(fields, "color", r.Color)
	setField(fields, "icon", r.Icon)
	setField(fields, "image", r.Image)
	return fields
}

func (app *application) listCategories(c *gin.Context) {
	categories, err := store.GetAll[models.Category](app.db, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, categories)
}

func (app *application) getCategory(c *gin.Context) {
	category, err := store.GetByID[models.Category](app.db, c.Param("id"), store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, category)
}

func (app *application) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	category := models.Category{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Image: req.Image,
	}
	saved, err := store.Save(app.db, &category, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, saved)
}

func (app *application) updateCategory(c *gin.Context) {
	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	category, err := store.UpdateByID[models.Category](app.db, c.Param("id"), req.fields(), store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, category)
}

func (app *application) deleteCategory(c *gin.Context) {
	category, err := store.DeleteByID[models.Category](app.db, c.Param("id"), store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, category)
}
