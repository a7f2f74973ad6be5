package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eshop-api/models"
	"eshop-api/store"
)

var briefSelection = []string{"name", "image"}

// briefProduct is the reduced projection used by the storefront listings.
type briefProduct struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type productForm struct {
	Name            string  `form:"name" binding:"required"`
	Description     string  `form:"description"`
	RichDescription string  `form:"richDescription"`
	Brand           string  `form:"brand"`
	Price           float64 `form:"price"`
	Category        string  `form:"category" binding:"required"`
	CountInStock    int     `form:"countInStock"`
	Rating          float64 `form:"rating"`
	NumReviews      int     `form:"numReviews"`
	IsFeatured      bool    `form:"isFeatured"`
}

func (app *application) listProducts(c *gin.Context) {
	products, err := store.GetAll[models.Product](app.db, store.GetOptions{
		Filter: categoryFilter(c.Query("categories")),
		Expand: []store.Expand{{Path: "Category"}},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, products)
}

func (app *application) listProductsBrief(c *gin.Context) {
	products, err := store.GetAll[models.Product](app.db, store.GetOptions{
		Filter:    categoryFilter(c.Query("categories")),
		Selection: briefSelection,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	brief := make([]briefProduct, 0, len(products))
	for _, p := range products {
		brief = append(brief, briefProduct{Name: p.Name, Image: p.Image})
	}
	respondResult(c, http.StatusOK, brief)
}

func (app *application) getProduct(c *gin.Context) {
	product, err := store.GetByID[models.Product](app.db, c.Param("id"), store.GetOptions{
		Expand: []store.Expand{{Path: "Category"}},
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, product)
}

func (app *application) getProductBrief(c *gin.Context) {
	product, err := store.GetByID[models.Product](app.db, c.Param("id"), store.GetOptions{
		Selection: briefSelection,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, briefProduct{Name: product.Name, Image: product.Image})
}

func (app *application) countProducts(c *gin.Context) {
	count, err := store.Count[models.Product](app.db, nil)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, count)
}

func (app *application) listFeaturedProducts(c *gin.Context) {
	limit := 0
	if raw := c.Param("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid count")
			return
		}
		limit = parsed
	}

	filter := map[string]any{"is_featured": true}
	for column, value := range categoryFilter(c.Query("categories")) {
		filter[column] = value
	}

	products, err := store.GetAll[models.Product](app.db, store.GetOptions{
		Filter: filter,
		Limit:  limit,
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, products)
}

func (app *application) createProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	if _, ok := store.FindByID[models.Category](app.db, form.Category); !ok {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid category")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "No image found")
		return
	}
	imageURL, err := app.saveUploadedImage(c, file)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, err.Error())
		return
	}

	product := models.Product{
		Name:            form.Name,
		Description:     form.Description,
		RichDescription: form.RichDescription,
		Image:           imageURL,
		Brand:           form.Brand,
		Price:           form.Price,
		CategoryID:      form.Category,
		CountInStock:    form.CountInStock,
		Rating:          form.Rating,
		NumReviews:      form.NumReviews,
		IsFeatured:      form.IsFeatured,
	}
	saved, err := store.Save(app.db, &product, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusCreated, saved)
}

// productUpdateFields builds the partial update from whichever form fields
// the request carried. Only allow-listed fields make it through.
func productUpdateFields(c *gin.Context) (map[string]any, string) {
	fields := map[string]any{}
	for form, column := range map[string]string{
		"name":            "name",
		"description":     "description",
		"richDescription": "rich_description",
		"brand":           "brand",
		"category":        "category_id",
	} {
		if v, ok := c.GetPostForm(form); ok {
			fields[column] = v
		}
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "Invalid price"
		}
		fields["price"] = price
	}
	if v, ok := c.GetPostForm("rating"); ok {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "Invalid rating"
		}
		fields["rating"] = rating
	}
	if v, ok := c.GetPostForm("countInStock"); ok {
		count, err := strconv.Atoi(v)
		if err != nil {
			return nil, "Invalid countInStock"
		}
		fields["count_in_stock"] = count
	}
	if v, ok := c.GetPostForm("numReviews"); ok {
		count, err := strconv.Atoi(v)
		if err != nil {
			return nil, "Invalid numReviews"
		}
		fields["num_reviews"] = count
	}
	if v, ok := c.GetPostForm("isFeatured"); ok {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return nil, "Invalid isFeatured"
		}
		fields["is_featured"] = featured
	}
	return fields, ""
}

func (app *application) updateProduct(c *gin.Context) {
	if category, ok := c.GetPostForm("category"); ok {
		if _, found := store.FindByID[models.Category](app.db, category); !found {
			respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid category")
			return
		}
	}
	product, ok := store.FindByID[models.Product](app.db, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, CodeNotFound, "Product not found")
		return
	}

	fields, problem := productUpdateFields(c)
	if problem != "" {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, problem)
		return
	}
	if file, err := c.FormFile("image"); err == nil {
		imageURL, err := app.saveUploadedImage(c, file)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidParams, err.Error())
			return
		}
		fields["image"] = imageURL
	}

	updated, err := store.UpdateByID[models.Product](app.db, product.ID, fields, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, updated)
}

func (app *application) updateProductGallery(c *gin.Context) {
	product, ok := store.FindByID[models.Product](app.db, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, CodeNotFound, "Product not found")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, err.Error())
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, CodeMissingParams, "No images given")
		return
	}
	if len(files) > maxGalleryImages {
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Too many images")
		return
	}

	images := make([]string, 0, len(files))
	for _, file := range files {
		imageURL, err := app.saveUploadedImage(c, file)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidParams, err.Error())
			return
		}
		images = append(images, imageURL)
	}

	updated, err := store.UpdateByID[models.Product](app.db, product.ID, map[string]any{"images": images}, store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, updated)
}

func (app *application) deleteProduct(c *gin.Context) {
	product, err := store.DeleteByID[models.Product](app.db, c.Param("id"), store.GetOptions{})
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respondResult(c, http.StatusOK, product)
}
