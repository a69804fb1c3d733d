package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/books", h.List)
	r.GET("/book/:book_key", h.Get)
	r.PUT("/book", h.Create)
	r.PATCH("/book", h.Update)
	r.DELETE("/book/:book_key", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var userKey *int64
	if v := c.Query("user_key"); v != "" {
		k, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid user_key"))
			return
		}
		userKey = &k
	}
	res, err := h.svc.List(c.Request.Context(), userKey, c.Query("category"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	key, ok := parseKey(c, "book_key")
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), key)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Create(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, err.Error()))
		return
	}
	st, key, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if st != StatusCreated {
		c.JSON(http.StatusConflict, StatusResponse{Status: st})
		return
	}
	c.Header("Location", "/book/"+strconv.FormatInt(key, 10))
	c.JSON(http.StatusCreated, StatusResponse{Status: st})
}

func (h *Handler) Update(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, err.Error()))
		return
	}
	st, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	code := http.StatusOK
	if st != StatusUpdated {
		code = http.StatusConflict
	}
	c.JSON(code, StatusResponse{Status: st})
}

func (h *Handler) Delete(c *gin.Context) {
	key, ok := parseKey(c, "book_key")
	if !ok {
		return
	}
	st, err := h.svc.Delete(c.Request.Context(), key)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	code := http.StatusOK
	switch st {
	case StatusStillBorrowed:
		code = http.StatusConflict
	case StatusNotDeleted:
		code = http.StatusNotFound
	}
	c.JSON(code, StatusResponse{Status: st})
}

// ---------- helpers ----------

func parseKey(c *gin.Context, name string) (int64, bool) {
	k, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid "+name))
		return 0, false
	}
	return k, true
}
