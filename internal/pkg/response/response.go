package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roofline-saas/service-estimate/internal/pkg/domain"
)

// envelope is the standard success payload shape.
type envelope struct {
	Data interface{} `json:"data"`
}

// errorBody is the standard error payload shape.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// paginatedBody wraps list responses with paging metadata.
type paginatedBody struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// OK writes a 200 response with the standard envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the standard envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// Paginated writes a 200 list response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedBody{Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message, Code: string(domain.CodeValidation)})
}

// Error maps an application error to its HTTP status. Unrecognized
// errors become opaque 500s so internal details never leak.
func Error(c *gin.Context, err error) {
	var appErr *domain.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case domain.CodeValidation, domain.CodeInvalidInput:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeUnavailable:
		status = http.StatusBadGateway
	}

	c.JSON(status, errorBody{Error: appErr.Message, Code: string(appErr.Code)})
}
