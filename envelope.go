package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshop-api/store"
)

// Machine-readable error codes; the set is closed.
const (
	CodeValidationError  = "request_validation_error"
	CodeInvalidParams    = "request_invalid_params"
	CodeMissingParams    = "request_missing_params"
	CodeNotFound         = "not_found"
	CodeNotAuthenticated = "not_authenticated"
	CodeNotAuthorized    = "not_authorized"
	CodeConflict         = "conflict"
	CodePersistence      = "persistence_error"
	CodeUnknown          = "unknown_error"
)

type responseError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Every response is the same envelope: {success, result} on success and
// {success, error:{message, code}} on failure.

func respondResult(c *gin.Context, status int, result any) {
	c.JSON(status, gin.H{"success": true, "result": result})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"success": false, "error": responseError{Message: message, Code: code}})
}

// abortError is respondError for middleware: it also stops the handler
// chain.
func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": responseError{Message: message, Code: code}})
}

// respondStoreError maps the data access taxonomy onto HTTP statuses and
// codes. No storage error reaches the client unclassified.
func respondStoreError(c *gin.Context, err error) {
	var vErr *store.ValidationError
	var cErr *store.ConflictError
	switch {
	case errors.Is(err, store.ErrInvalidID):
		respondError(c, http.StatusBadRequest, CodeInvalidParams, "Invalid object ID")
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "The item was not found")
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, CodeValidationError, vErr.Error())
	case errors.As(err, &cErr):
		respondError(c, http.StatusConflict, CodeConflict, cErr.Error())
	default:
		respondError(c, http.StatusInternalServerError, CodePersistence, err.Error())
	}
}
