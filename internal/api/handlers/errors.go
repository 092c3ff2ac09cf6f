package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapcluster/internal/config"
	"mapcluster/internal/services"
)

// statusFor maps controller errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidAnnotation),
		errors.Is(err, services.ErrInvalidRegion),
		errors.Is(err, config.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnknownAnnotation):
		return http.StatusNotFound
	case errors.Is(err, services.ErrControllerClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// waitForCompletion blocks until done is closed or the client goes away.
func waitForCompletion(c *gin.Context, done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	case <-c.Request.Context().Done():
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request cancelled before clustering finished"})
		return false
	}
}
