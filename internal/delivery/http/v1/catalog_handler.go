package v1

import (
	"net/http"

	json "github.com/goccy/go-json"

	"caribay-backend/internal/domain"
	"caribay-backend/internal/usecase"
	"caribay-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogUsecase *usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: categories})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in usecase.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.catalogUsecase.CreateCategory(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: category})
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in usecase.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.catalogUsecase.UpdateCategory(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: category})
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUsecase.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Category deleted"})
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Page:       utils.ParseInt(q.Get("page"), 1),
		Limit:      utils.ParseInt(q.Get("limit"), 25),
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
		ActiveOnly: q.Get("active") == "true",
	}

	products, total, err := h.catalogUsecase.ListProducts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    products,
		Meta:    paginate(filter.Page, filter.Limit, total),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUsecase.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: product})
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.catalogUsecase.CreateProduct(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: product})
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in usecase.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.catalogUsecase.UpdateProduct(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: product})
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUsecase.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Message: "Product deleted"})
}

type stockAdjustRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adminID := ""
	if user, ok := r.Context().Value(domain.UserContextKey).(*domain.User); ok && user != nil {
		adminID = user.ID
	}

	stock, err := h.catalogUsecase.AdjustStock(r.Context(), r.PathValue("id"), req.Delta, req.Reason, adminID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]int{"stock": stock},
	})
}

func (h *CatalogHandler) StockAdjustments(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)
	adjustments, err := h.catalogUsecase.StockAdjustments(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: adjustments})
}

func (h *CatalogHandler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUsecase.LowStockProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: products})
}
