package categories

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ store *Store }

func RegisterRoutes(r gin.IRoutes, conn *sql.DB) {
	h := &Handler{store: NewStore(conn)}
	r.GET("/category", h.List)
	r.PUT("/category", h.Create)
}

func (h *Handler) List(c *gin.Context) {
	res, err := h.store.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req Category
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, err.Error()))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "name is required"))
		return
	}
	if err := h.store.Create(c.Request.Context(), req); err != nil {
		if apierr.CodeOf(err) == apierr.CodeConflict {
			c.JSON(http.StatusConflict, StatusResponse{Status: StatusNotCreated})
			return
		}
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, StatusResponse{Status: StatusCreated})
}
