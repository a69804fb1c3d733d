package media

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ store CoverStore }

func RegisterRoutes(r gin.IRoutes, store CoverStore) {
	h := &Handler{store: store}
	r.GET("/media/exists/:book_key", h.Exists)
	r.GET("/media/:book_key", h.Cover)
}

func parseKey(c *gin.Context) (int64, bool) {
	key, err := strconv.ParseInt(c.Param("book_key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid book_key"))
		return 0, false
	}
	return key, true
}

func (h *Handler) Exists(c *gin.Context) {
	key, ok := parseKey(c)
	if !ok {
		return
	}
	found, err := h.store.Exists(c.Request.Context(), key)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if found {
		c.JSON(http.StatusOK, "True")
		return
	}
	c.JSON(http.StatusOK, "False")
}

func (h *Handler) Cover(c *gin.Context) {
	key, ok := parseKey(c)
	if !ok {
		return
	}
	rc, err := h.store.Open(c.Request.Context(), key)
	if errors.Is(err, ErrNotFound) {
		apierr.Respond(c, apierr.ErrNotFound("cover not found"))
		return
	}
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	defer rc.Close()

	log.Printf("[INFO] serving cover %d", key)
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Printf("[WARN] cover %d: %v", key, err)
	}
}
