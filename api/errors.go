package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type fieldErrorView struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// respondError maps the typed service errors onto HTTP statuses.
// Validation errors keep their per-field grouping.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make(map[string][]fieldErrorView)
		for _, f := range verr.Fields {
			fields[f.Field] = append(fields[f.Field], fieldErrorView{Message: f.Message, Code: f.Code})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}

	var perr *domain.PermissionDeniedError
	if errors.As(err, &perr) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient Permission."})
		return
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var ext *domain.ExternalError
	if errors.As(err, &ext) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream service failure"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
