package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/clock"
)

type ImportStatus string

const (
	StatusImported     ImportStatus = "successfully imported"
	StatusImportFailed ImportStatus = "import failed"
)

type ImportResponse struct {
	Status      ImportStatus `json:"status"`
	ImportCount int          `json:"import_count"`
}

// 10 MiB
const maxUpload = 10 << 20

type Handler struct {
	svc   *Service
	clock clock.Clock
}

func RegisterRoutes(r gin.IRoutes, svc *Service, clk clock.Clock) {
	h := &Handler{svc: svc, clock: clk}
	r.GET("/books/export/csv/", h.export("Bücherliste", svc.ExportBooks))
	r.GET("/users/export/csv/", h.export("Benutzerliste", svc.ExportBorrowers))
	r.POST("/books/import/csv/", h.importFile(svc.ImportBooks))
	r.POST("/users/import/csv/", h.importFile(svc.ImportBorrowers))
}

func (h *Handler) export(list string, write func(context.Context, io.Writer) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := write(c.Request.Context(), &buf); err != nil {
			apierr.Respond(c, err)
			return
		}
		name := fmt.Sprintf("%s %s.csv", list, h.clock.Now().Format("02.01.2006"))
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Data(http.StatusOK, "text/csv; charset=iso-8859-1", buf.Bytes())
	}
}

func (h *Handler) importFile(load func(context.Context, io.Reader) (int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "multipart field 'file' required"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		if len(raw) > maxUpload {
			c.JSON(http.StatusRequestEntityTooLarge, apierr.Body(apierr.CodeInvalidArgument, "file too large"))
			return
		}

		n, err := load(c.Request.Context(), Decode(raw))
		if err != nil {
			log.Printf("[WARN] import %s: %v", fh.Filename, err)
			c.JSON(apierr.ToHTTPStatus(err), ImportResponse{Status: StatusImportFailed})
			return
		}
		log.Printf("[INFO] imported %d rows from %s", n, fh.Filename)
		c.JSON(http.StatusOK, ImportResponse{Status: StatusImported, ImportCount: n})
	}
}
