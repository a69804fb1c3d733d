package stats

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/stats/books/borrowed", h.count(svc.OpenCount))
	r.GET("/stats/books/overdue", h.count(svc.OverdueCount))
	r.GET("/stats/books/overdue/open", h.count(svc.OpenOverdueCount))
	r.GET("/stats/books/count", h.count(svc.BookCount))
	r.GET("/stats/users/count", h.count(svc.BorrowerCount))

	r.GET("/books/available", h.AvailableBooks)
	r.GET("/book/borrowed/:book_key", h.IsBorrowed)
	r.GET("/users/borrowing", h.OpenLoans)
}

// count renders a bare number body.
func (h *Handler) count(read func(context.Context) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := read(c.Request.Context())
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
	}
}

func (h *Handler) AvailableBooks(c *gin.Context) {
	bs, err := h.svc.AvailableBooks(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, books.ToResponses(bs))
}

// "True" / "False" as a JSON string.
func (h *Handler) IsBorrowed(c *gin.Context) {
	key, err := strconv.ParseInt(c.Param("book_key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid book_key"))
		return
	}
	ok, err := h.svc.IsBorrowed(c.Request.Context(), key)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if ok {
		c.JSON(http.StatusOK, "True")
		return
	}
	c.JSON(http.StatusOK, "False")
}

func (h *Handler) OpenLoans(c *gin.Context) {
	rows, err := h.svc.OpenLoans(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
