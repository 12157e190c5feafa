package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"catalog/middleware"
	"catalog/models"
	"catalog/store"
	"catalog/view"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	msgProductNotFound      = "Product not found"
	msgProductNotFoundError = "Error: Product not found"
	msgUnauthorized         = "Error: Unauthorized user"
	msgFilterFailed         = "Could not get filtered products"
	msgProductExists        = "Product already exists!"
	msgValidation           = "Validation exception"
	msgCreateFailed         = "Could not create product"
	msgCreated              = "Product created successfully"
	msgUpdateFailed         = "Could not update product"
	msgUpdated              = "Product updated successfully"
	msgDeleted              = "Product deleted successfully"
	msgInvalidOrder         = "Invalid order parameter"
)

// Authorizer 判斷請求者能否修改商品
type Authorizer interface {
	Allow(ctx context.Context, token models.IdentityToken) bool
}

type ProductHandler struct {
	store store.ProductStore
	gate  Authorizer
	view  view.Renderer
	log   *logrus.Logger
}

func NewProductHandler(s store.ProductStore, gate Authorizer, renderer view.Renderer, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		store: s,
		gate:  gate,
		view:  renderer,
		log:   logger,
	}
}

func message(status int, template, msg string) view.Result {
	return view.Result{Status: status, Template: template, Data: gin.H{"message": msg}}
}

func unauthorized() view.Result {
	return message(http.StatusUnauthorized, "unauthorized_user", msgUnauthorized)
}

// 查詢商品列表
func (h *ProductHandler) GetAll(c *gin.Context) {
	h.view.Render(c, h.getAll(c))
}

func (h *ProductHandler) getAll(c *gin.Context) view.Result {
	products, err := h.store.FindAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("無法讀取商品列表")
		return message(http.StatusInternalServerError, "operation_not_executed", "Could not get products")
	}
	return view.Result{Status: http.StatusOK, Template: "products", Data: gin.H{"products": products}}
}

// 依分類查詢，可指定排序
func (h *ProductHandler) GetByCategory(c *gin.Context) {
	h.view.Render(c, h.getByCategory(c))
}

func (h *ProductHandler) getByCategory(c *gin.Context) view.Result {
	category := c.Query("category")
	order := c.Query("order")

	if category == "" && order == "" {
		return message(http.StatusNotFound, "error_not_found", msgProductNotFound)
	}

	filter := store.CategoryFilter{Category: category}
	if order != "" {
		sortOrder, err := store.ParseSortOrder(order)
		if err != nil {
			h.log.WithError(err).WithField("order", order).Warn("拒絕排序參數")
			return view.Result{
				Status:   http.StatusBadRequest,
				Template: "bad_request",
				Data:     gin.H{"message": msgInvalidOrder, "error": err.Error()},
			}
		}
		filter.Order = &sortOrder
	}

	products, err := h.store.FindByCategory(c.Request.Context(), filter)
	if err != nil {
		h.log.WithError(err).WithField("category", category).Error("無法查詢分類商品")
		return message(http.StatusInternalServerError, "operation_not_executed", msgFilterFailed)
	}
	return view.Result{Status: http.StatusOK, Template: "products", Data: gin.H{"products": products}}
}

// 新增商品
func (h *ProductHandler) Create(c *gin.Context) {
	h.view.Render(c, h.create(c))
}

func (h *ProductHandler) create(c *gin.Context) view.Result {
	ctx := c.Request.Context()
	if !h.gate.Allow(ctx, middleware.GetIdentity(c)) {
		return unauthorized()
	}

	input, result, ok := h.bindInput(c, "error_create_product")
	if !ok {
		return result
	}
	if input.Name == nil {
		return validationFailure("error_create_product", &ValidationError{Fields: map[string]string{"name": "is required"}})
	}

	_, err := h.store.FindByName(ctx, *input.Name)
	switch {
	case err == nil:
		return message(http.StatusConflict, "product_exists", msgProductExists)
	case !errors.Is(err, store.ErrNotFound):
		h.log.WithError(err).Error("查詢商品名稱失敗")
		return message(http.StatusInternalServerError, "error_create_product", msgCreateFailed)
	}

	product := models.Product{}
	input.applyTo(&product)

	err = h.store.Insert(ctx, &product)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return message(http.StatusConflict, "product_exists", msgProductExists)
		}
		h.log.WithError(err).Error("新增商品失敗")
		return message(http.StatusInternalServerError, "error_create_product", msgCreateFailed)
	}

	h.log.WithField("productID", product.ID).Info("成功新增商品")
	return view.Result{
		Status:   http.StatusOK,
		Template: "create_product_success",
		Data:     gin.H{"message": msgCreated, "product": &product},
	}
}

// 修改商品，未帶的欄位維持原值
func (h *ProductHandler) Update(c *gin.Context) {
	h.view.Render(c, h.update(c))
}

func (h *ProductHandler) update(c *gin.Context) view.Result {
	ctx := c.Request.Context()
	if !h.gate.Allow(ctx, middleware.GetIdentity(c)) {
		return unauthorized()
	}

	product, result, ok := h.findProduct(c, "product_not_found", msgProductNotFound)
	if !ok {
		return result
	}

	input, result, ok := h.bindInput(c, "error_update_product")
	if !ok {
		return result
	}
	input.applyTo(product)

	err := h.store.Update(ctx, product)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return message(http.StatusConflict, "product_exists", msgProductExists)
		}
		h.log.WithError(err).WithField("productID", product.ID).Error("修改商品失敗")
		return message(http.StatusInternalServerError, "error_update_product", msgUpdateFailed)
	}

	h.log.WithField("productID", product.ID).Info("成功修改商品")
	return view.Result{
		Status:   http.StatusOK,
		Template: "update_product_success",
		Data:     gin.H{"message": msgUpdated, "product": product},
	}
}

// 刪除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	h.view.Render(c, h.delete(c))
}

func (h *ProductHandler) delete(c *gin.Context) view.Result {
	ctx := c.Request.Context()
	if !h.gate.Allow(ctx, middleware.GetIdentity(c)) {
		return unauthorized()
	}

	product, result, ok := h.findProduct(c, "error_product_not_found", msgProductNotFoundError)
	if !ok {
		return result
	}

	err := h.store.Delete(ctx, product.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return message(http.StatusNotFound, "error_product_not_found", msgProductNotFoundError)
		}
		h.log.WithError(err).WithField("productID", product.ID).Error("刪除商品失敗")
		return message(http.StatusInternalServerError, "operation_not_executed", "Could not delete product")
	}

	h.log.WithField("productID", product.ID).Info("成功刪除商品")
	return message(http.StatusOK, "delete_product_success", msgDeleted)
}

// findProduct 依路徑參數productId查詢，非數字的id視同不存在
func (h *ProductHandler) findProduct(c *gin.Context, notFoundView, notFoundMsg string) (*models.Product, view.Result, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("productId")), 10, 64)
	if err != nil || id == 0 {
		return nil, message(http.StatusNotFound, notFoundView, notFoundMsg), false
	}

	product, err := h.store.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, message(http.StatusNotFound, notFoundView, notFoundMsg), false
		}
		h.log.WithError(err).WithField("productID", id).Error("查找此商品失敗")
		return nil, message(http.StatusInternalServerError, "operation_not_executed", "Could not get product"), false
	}
	return product, view.Result{}, true
}

func (h *ProductHandler) bindInput(c *gin.Context, failureView string) (productRequest, view.Result, bool) {
	req, err := bindProductRequest(c)
	if err != nil {
		h.log.WithError(err).Warn("綁定請求資料錯誤")
		var verr *ValidationError
		if errors.As(err, &verr) {
			return productRequest{}, validationFailure(failureView, verr), false
		}
		return productRequest{}, message(http.StatusUnprocessableEntity, failureView, msgValidation), false
	}
	return req, view.Result{}, true
}

func validationFailure(template string, verr *ValidationError) view.Result {
	return view.Result{
		Status:   http.StatusUnprocessableEntity,
		Template: template,
		Data:     gin.H{"message": msgValidation, "error": verr.Error(), "fields": verr.Fields},
	}
}

// applyTo 只覆寫有提供的欄位
func (in productRequest) applyTo(p *models.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.PhotoURL != nil {
		p.PhotoURL = *in.PhotoURL
	}
	if in.Quantity != nil {
		p.Quantity = float64(*in.Quantity)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = float64(*in.Price)
	}
	if in.Discount != nil {
		p.Discount = float64(*in.Discount)
	}
}
