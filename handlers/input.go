package handlers

import (
	"encoding/json"
	"io"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ValidationError 欄位格式錯誤，key為欄位名稱
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = reason
}

// amount 接受JSON數字或數字字串，空字串為0
type amount float64

func (a *amount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		*a = 0
		return nil
	}
	if _, ok := raw.(bool); !ok {
		if f, err := cast.ToFloat64E(raw); err == nil {
			*a = amount(f)
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf(float64(0))}
}

// productRequest nil代表請求未帶該欄位或為null
type productRequest struct {
	Name        *string `json:"name" form:"name"`
	Category    *string `json:"category" form:"category"`
	PhotoURL    *string `json:"photoUrl" form:"photoUrl"`
	Quantity    *amount `json:"quantity" form:"quantity"`
	Description *string `json:"description" form:"description"`
	Price       *amount `json:"price" form:"price"`
	Discount    *amount `json:"discount" form:"discount"`
}

// bindProductRequest 綁定JSON或表單body，空body視為沒有任何欄位
func bindProductRequest(c *gin.Context) (productRequest, error) {
	var req productRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		return productRequest{}, bindError(err)
	}
	if err := req.validate(); err != nil {
		return productRequest{}, err
	}
	return req, nil
}

func bindError(err error) *ValidationError {
	verr := &ValidationError{}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr.add(typeErr.Field, "must be a "+typeName(typeErr.Type))
		return verr
	}
	verr.add("body", err.Error())
	return verr
}

func typeName(t reflect.Type) string {
	if t != nil && t.Kind() == reflect.String {
		return "string"
	}
	return "number"
}

func (r productRequest) validate() error {
	verr := &ValidationError{}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		verr.add("name", "must not be blank")
	}
	for field, v := range map[string]*amount{"quantity": r.Quantity, "price": r.Price, "discount": r.Discount} {
		if v != nil && (math.IsNaN(float64(*v)) || math.IsInf(float64(*v), 0)) {
			verr.add(field, "must be a number")
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
