package http

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/files"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
)

// ThumbnailPrefix is the URL path thumbnails are served under
const ThumbnailPrefix = "/thumbnails"

// multipartMemory is the part of a multipart form kept in memory
const multipartMemory = 128 * 1024

// ThumbnailHandler stores uploaded product images and serves them back
type ThumbnailHandler struct {
	productService service.ProductService
	store          files.Storage
	maxBytes       int64
	logger         hclog.Logger
}

func NewThumbnailHandler(ps service.ProductService, store files.Storage, maxBytes int64, log hclog.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{productService: ps, store: store, maxBytes: maxBytes, logger: log}
}

// Upload handles POST /api/products/{pid}/thumbnails
//
// swagger:route POST /api/products/{pid}/thumbnails products uploadThumbnail
//
// Stores the multipart field "file" and appends its URL to the product's
// thumbnails.
//
// Consumes:
// - multipart/form-data
//
// Responses:
//
//	201: productResponse
//	400: errorResponse
//	404: errorResponse
func (h *ThumbnailHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["pid"]

	// fail before storing anything for unknown products
	if _, err := h.productService.GetProductByID(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	// leave room for the multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.logger.Error("Unable to parse multipart form", "error", err)
		writeError(w, h.logger, domain.NewValidationError("file", "Unable to parse form: %s", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.logger, domain.NewValidationError("file", "Missing required field: file"))
		return
	}
	defer file.Close()

	name, err := files.CleanName(header.Filename)
	if err != nil {
		writeError(w, h.logger, domain.NewValidationError("file", "Invalid file name: %q", header.Filename))
		return
	}

	h.logger.Info("Save thumbnail for product", "id", id, "filename", name)
	if err := h.store.Save(filepath.Join(id, name), file); err != nil {
		if errors.Is(err, files.ErrTooLarge) {
			writeError(w, h.logger, domain.NewValidationError("file", "%s", err))
			return
		}
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.AddThumbnail(r.Context(), id, path.Join(ThumbnailPrefix, id, name))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, product)
}

// Get handles GET /thumbnails/{pid}/{filename}
func (h *ThumbnailHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, fn := vars["pid"], vars["filename"]

	file, err := h.store.Get(filepath.Join(id, fn))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, files.ErrInvalidName) {
			writeError(w, h.logger, domain.NewNotFoundError("thumbnail", path.Join(id, fn)))
			return
		}
		writeError(w, h.logger, err)
		return
	}
	defer file.Close()

	contentType, err := getContentType(file)
	if err != nil {
		h.logger.Error("Unable to detect content type", "error", err)
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, file); err != nil {
		h.logger.Error("Unable to write file to response", "error", err)
	}
}

// getContentType determines the MIME type of the file based on its content
func getContentType(file *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}
