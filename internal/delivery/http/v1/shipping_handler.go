package v1

import (
	"net/http"

	json "github.com/goccy/go-json"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type ShippingHandler struct {
	shippingUsecase *usecase.ShippingUsecase
}

func NewShippingHandler(shippingUsecase *usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{shippingUsecase: shippingUsecase}
}

// Quote resolves the shipping cost for a destination. It always
// answers 200 with a quote; "cannot ship there" and "lookup failed"
// are both expressed in the quote body, never as an HTTP error, so the
// checkout flow has a single code path.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quote := h.shippingUsecase.Resolve(r.Context(), q.Get("country"), q.Get("state"), q.Get("city"))
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: quote})
}

func (h *ShippingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ShippingRuleFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 25),
		Scope:  q.Get("scope"),
		Search: q.Get("search"),
	}

	rules, total, err := h.shippingUsecase.ListRules(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    rules,
		Meta:    paginate(filter.Page, filter.Limit, total),
	})
}

func (h *ShippingHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.shippingUsecase.GetRule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: rule})
}

func (h *ShippingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var in usecase.ShippingRuleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, err := h.shippingUsecase.CreateRule(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: rule})
}

func (h *ShippingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var in usecase.ShippingRuleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule, err := h.shippingUsecase.UpdateRule(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: rule})
}

type ruleCostRequest struct {
	IsFree   bool    `json:"isFree"`
	BaseCost float64 `json:"baseCost"`
}

func (h *ShippingHandler) UpdateRuleCost(w http.ResponseWriter, r *http.Request) {
	var req ruleCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.shippingUsecase.UpdateRuleCost(r.Context(), r.PathValue("id"), req.IsFree, req.BaseCost); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Rule cost updated"})
}

type ruleToggleRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *ShippingHandler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	var req ruleToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.shippingUsecase.ToggleRule(r.Context(), r.PathValue("id"), req.IsActive); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Rule status updated"})
}

func (h *ShippingHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.shippingUsecase.DeleteRule(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Rule deleted"})
}
