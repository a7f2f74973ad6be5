package main

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// uploadsRoute is where the uploads directory is served from.
const uploadsRoute = "/public/uploads"

const maxGalleryImages = 20

var allowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

func allowedImageTypeList() string {
	exts := make([]string, 0, len(allowedImageTypes))
	for _, ext := range allowedImageTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// saveUploadedImage writes an uploaded image into the uploads directory and
// returns the absolute URL it will be served under. The content type must
// be on the allow-list.
func (app *application) saveUploadedImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext, ok := allowedImageTypes[file.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("invalid file type, must be one of %s", allowedImageTypeList())
	}

	base := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	base = strings.ReplaceAll(base, " ", "_")
	name := fmt.Sprintf("%s-%d.%s", base, time.Now().UnixMilli(), ext)

	if err := c.SaveUploadedFile(file, filepath.Join(app.cfg.UploadsDir, name)); err != nil {
		return "", err
	}
	return requestBasePath(c) + uploadsRoute + "/" + name, nil
}

func requestBasePath(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
