package workflow

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.PATCH("/borrow/:user_key/:book_key", h.Borrow)
	r.PATCH("/return/:user_key/:book_key", h.Return)
	r.PATCH("/extend/:user_key/:book_key", h.Extend)
}

func (h *Handler) Borrow(c *gin.Context) {
	user, book, ok := parseKeys(c)
	if !ok {
		return
	}
	weeks, ok := parseDuration(c, DefaultBorrowWeeks)
	if !ok {
		return
	}
	res, err := h.svc.Borrow(c.Request.Context(), user, book, weeks)
	respond(c, res, err)
}

func (h *Handler) Return(c *gin.Context) {
	user, book, ok := parseKeys(c)
	if !ok {
		return
	}
	res, err := h.svc.Return(c.Request.Context(), user, book)
	respond(c, res, err)
}

func (h *Handler) Extend(c *gin.Context) {
	user, book, ok := parseKeys(c)
	if !ok {
		return
	}
	weeks, ok := parseDuration(c, DefaultExtendWeeks)
	if !ok {
		return
	}
	res, err := h.svc.Extend(c.Request.Context(), user, book, weeks)
	respond(c, res, err)
}

// ---------- helpers ----------

func respond(c *gin.Context, res Result, err error) {
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(res.Status.HTTPStatus(), res)
}

func parseKeys(c *gin.Context) (user, book int64, ok bool) {
	user, err := strconv.ParseInt(c.Param("user_key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid user_key"))
		return 0, 0, false
	}
	book, err = strconv.ParseInt(c.Param("book_key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid book_key"))
		return 0, 0, false
	}
	return user, book, true
}

func parseDuration(c *gin.Context, d int) (int, bool) {
	v := c.Query("duration")
	if v == "" {
		return d, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid duration"))
		return 0, false
	}
	return n, true
}
