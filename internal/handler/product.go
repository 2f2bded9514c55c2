package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
	"github.com/shoplane-io/shoplane-api/internal/uploader"
	"github.com/shoplane-io/shoplane-api/internal/usecase"
	"github.com/shoplane-io/shoplane-api/shared/validator"
)

const maxExtraImages = 7

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Price       float64 `json:"price"       validate:"required"`
	Image       string  `json:"image"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	SubCategory *string  `json:"subCategory"`
}

// ProductHandler exposes the catalog over HTTP.
type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	uploader       *uploader.DiskUploader
	validator      *validator.Validator
	logger         *zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(
	productUsecase usecase.ProductUsecase,
	up *uploader.DiskUploader,
	v *validator.Validator,
	logger *zerolog.Logger,
) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		uploader:       up,
		validator:      v,
		logger:         logger,
	}
}

func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productUsecase.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	if products == nil {
		products = []*model.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productUsecase.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	product, err := h.productUsecase.CreateProduct(r.Context(), &model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Category:    req.Category,
		SubCategory: req.SubCategory,
	})
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productUsecase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), repository.UpdateProductParams{
		Name:        req.Name,
		Price:       req.Price,
		Image:       req.Image,
		Description: req.Description,
		Category:    req.Category,
		SubCategory: req.SubCategory,
	})
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productUsecase.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondProductError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

// UploadProduct creates a product from a multipart form with one default
// image and up to seven extra images.
func (h *ProductHandler) UploadProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, (maxExtraImages+1)*uploader.MaxFileSize+1<<20)

	if err := r.ParseMultipartForm(uploader.MaxFileSize); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	priceStr := r.FormValue("price")
	defaultImages := r.MultipartForm.File["defaultImage"]

	if name == "" || description == "" || priceStr == "" || len(defaultImages) == 0 {
		respondMessage(w, http.StatusBadRequest, "Missing required fields.")
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid price")
		return
	}

	imagePath, err := h.uploader.Save(defaultImages[0], "defaultImage")
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	extraFiles := r.MultipartForm.File["extraImages"]
	if len(extraFiles) > maxExtraImages {
		extraFiles = extraFiles[:maxExtraImages]
	}

	extraPaths := make([]string, 0, len(extraFiles))
	for _, fileHeader := range extraFiles {
		path, err := h.uploader.Save(fileHeader, "extraImages")
		if err != nil {
			h.respondUploadError(w, err)
			return
		}
		extraPaths = append(extraPaths, path)
	}

	product, err := h.productUsecase.CreateProduct(r.Context(), &model.Product{
		Name:        name,
		Price:       price,
		Description: description,
		Category:    strings.TrimSpace(r.FormValue("category")),
		SubCategory: strings.TrimSpace(r.FormValue("subCategory")),
		Image:       imagePath,
		ExtraImages: extraPaths,
	})
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Product uploaded",
		"product": product,
	})
}

func (h *ProductHandler) respondUploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, uploader.ErrNotAnImage) || errors.Is(err, uploader.ErrFileTooLarge) {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Error().Err(err).Msg("upload failed")
	respondMessage(w, http.StatusInternalServerError, "Internal server error")
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrProductNotFound) {
		respondMessage(w, http.StatusNotFound, "Product not found")
		return
	}

	h.logger.Error().Err(err).Msg("product request failed")
	respondMessage(w, http.StatusInternalServerError, "Internal server error")
}
