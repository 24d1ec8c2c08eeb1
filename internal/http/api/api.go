package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greensys-tech/invernadero/internal/http/middleware"
	"github.com/greensys-tech/invernadero/internal/model"
)

// APIError carries the status code and message a handler wants returned.
// Fields, when set, is a field-keyed validation message map rendered as
// {"errors": {...}} instead of {"error": "..."}.
type APIError struct {
	Code    int
	Message string
	Fields  map[string]string
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// Response lets a handler override the default 200 status.
type Response struct {
	Code int
	Body any
}

// Created wraps a body in a 201 response.
func Created(body any) Response {
	return Response{Code: http.StatusCreated, Body: body}
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			writeError(ctx, apiErr)
			return
		}
		writeResult(ctx, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			writeError(ctx, apiErr)
			return
		}
		writeResult(ctx, result)
	}
}

func writeResult(ctx *gin.Context, result any) {
	if r, ok := result.(Response); ok {
		ctx.JSON(r.Code, r.Body)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func writeError(ctx *gin.Context, apiErr *APIError) {
	if len(apiErr.Fields) > 0 {
		ctx.JSON(apiErr.Code, gin.H{"errors": apiErr.Fields})
		return
	}
	ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
}
