package v1

import (
	"net/http"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/storage"
	"caribay-backend/pkg/utils"
)

// maxImageSize caps product image uploads at 20 MB before processing.
const maxImageSize = 20 << 20

type UploadHandler struct {
	storage *storage.R2Storage
}

func NewUploadHandler(st *storage.R2Storage) *UploadHandler {
	return &UploadHandler{storage: st}
}

// UploadImage accepts a product image, re-encodes it (resized, WebP
// where the source allows) and stores it in the public bucket. The
// client gets back the public URL to save on the product record.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !utils.IsImage(header.Header.Get("Content-Type")) {
		utils.WriteError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	data, contentType, err := utils.ProcessImage(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Unable to process image")
		return
	}

	url, err := h.storage.UploadImage(r.Context(), data, contentType)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Upload failed")
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]string{"url": url},
	})
}
