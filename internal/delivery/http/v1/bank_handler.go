package v1

import (
	"net/http"

	json "github.com/goccy/go-json"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type BankHandler struct {
	bankUsecase *usecase.BankAccountUsecase
}

func NewBankHandler(bankUsecase *usecase.BankAccountUsecase) *BankHandler {
	return &BankHandler{bankUsecase: bankUsecase}
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bankUsecase.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: accounts})
}

func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.BankAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.bankUsecase.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: account})
}

func (h *BankHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.BankAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.bankUsecase.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: account})
}

type accountActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *BankHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req accountActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.bankUsecase.SetActive(r.Context(), r.PathValue("id"), req.IsActive); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Account status updated"})
}

func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.bankUsecase.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Account deleted"})
}
