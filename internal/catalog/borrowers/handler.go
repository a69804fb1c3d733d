package borrowers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/users", h.List)
	r.GET("/user/:user_key", h.Get)
	r.PUT("/user", h.Create)
	r.PATCH("/user", h.Update)
	r.DELETE("/user/:user_key", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Get(c *gin.Context) {
	key, ok := parseKey(c)
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
	var req UserRequest
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
	c.Header("Location", "/user/"+strconv.FormatInt(key, 10))
	c.JSON(http.StatusCreated, StatusResponse{Status: st})
}

func (h *Handler) Update(c *gin.Context) {
	var req UserRequest
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
	key, ok := parseKey(c)
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
	case StatusStillBorrowing:
		code = http.StatusConflict
	case StatusNotDeleted:
		code = http.StatusNotFound
	}
	c.JSON(code, StatusResponse{Status: st})
}

func parseKey(c *gin.Context) (int64, bool) {
	k, err := strconv.ParseInt(c.Param("user_key"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid user_key"))
		return 0, false
	}
	return k, true
}
