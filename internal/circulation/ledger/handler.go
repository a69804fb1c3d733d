package ledger

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/clock"
)

type Handler struct{ store *Store }

// RegisterRoutes exposes the read-only loan history.
func RegisterRoutes(r gin.IRoutes, conn *sql.DB, driver string) {
	h := &Handler{store: NewStore(conn, driver)}
	r.GET("/loans", h.List)
	r.GET("/loans/:loan_ulid", h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	l, err := h.store.GetByULID(c.Request.Context(), c.Param("loan_ulid"))
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*l))
}

// GET /loans?book_key=&user_key=&open=&overdue_as_of=&limit=&offset=&order=
func (h *Handler) List(c *gin.Context) {
	f := LoanFilter{}
	if v := c.Query("book_key"); v != "" {
		k, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid book_key"))
			return
		}
		f.BookKey = &k
	}
	if v := c.Query("user_key"); v != "" {
		k, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid user_key"))
			return
		}
		f.BorrowerKey = &k
	}
	if v := c.Query("open"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "open must be true or false"))
			return
		}
		f.Open = &b
	}
	if v := c.Query("overdue_as_of"); v != "" {
		d, err := clock.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "overdue_as_of must be YYYY-MM-DD"))
			return
		}
		f.OverdueAsOf = &d
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	rows, total, err := h.store.List(c.Request.Context(), f, p)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	items := make([]LoanResponse, 0, len(rows))
	for _, l := range rows {
		items = append(items, toResponse(l))
	}
	next := p.Offset + p.Limit
	if next >= int(total) {
		next = 0
	} // 0=終端
	c.JSON(http.StatusOK, ListLoansResult{Items: items, Total: total, NextOffset: next})
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
