package v1

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

// maxProofSize caps payment proof uploads at 10 MB.
const maxProofSize = 10 << 20

type OrderHandler struct {
	orderUsecase *usecase.OrderUsecase
}

func NewOrderHandler(orderUsecase *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 25),
		Status: q.Get("status"),
		Search: q.Get("search"),
	}

	orders, total, err := h.orderUsecase.ListOrders(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    orders,
		Meta:    paginate(filter.Page, filter.Limit, total),
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUsecase.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: order})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.orderUsecase.UpdateStatus(r.Context(), r.PathValue("id"), req.Status); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Order status updated"})
}

// PaymentProofURL hands back a short-lived signed URL for the order's
// payment proof. The object itself lives in a private bucket; the URL
// is minted per request so a leaked link goes stale on its own.
func (h *OrderHandler) PaymentProofURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.orderUsecase.PaymentProofURL(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]string{"url": url},
	})
}

func (h *OrderHandler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Proof file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Unable to read proof file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !utils.IsImage(contentType) && contentType != "application/pdf" {
		utils.WriteError(w, http.StatusBadRequest, "Proof must be an image or PDF")
		return
	}

	key, err := h.orderUsecase.AttachPaymentProof(r.Context(), r.PathValue("id"), data, contentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Message: "Payment proof uploaded",
		Data:    map[string]string{"path": key},
	})
}
