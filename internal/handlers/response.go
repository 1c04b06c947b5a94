package handlers

import (
	"net/http"

	"estatehub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// Response is the success envelope: {"success": true, "data": ...}.
type Response struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       interface{}     `json:"data,omitempty"`
	Pagination *dto.Pagination `json:"pagination,omitempty"`
	FromCache  *bool           `json:"fromCache,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondOK(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, data)
}

func respondCreated(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, data)
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

func respondPage(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	p := dto.NewPagination(page, pageSize, total)
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &p})
}
