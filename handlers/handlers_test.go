package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"catalog/middleware"
	"catalog/models"
	"catalog/store"
	"catalog/view"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	adminID    = 2
	userID     = 1
	unknownID  = 3
	testUserID = "X-Test-User"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryStore 依插入順序保存商品，name唯一
type memoryStore struct {
	mu       sync.Mutex
	products map[uint]models.Product
	ids      []uint
	nextID   uint

	filterErr   error
	findNameErr error
	insertErr   error
	hideNames   bool

	filterCalls int
	inserts     int
	updates     int
}

func newMemoryStore(products ...models.Product) *memoryStore {
	s := &memoryStore{products: map[uint]models.Product{}, nextID: 1}
	for i := range products {
		p := products[i]
		_ = s.Insert(context.Background(), &p)
	}
	s.inserts = 0
	return s
}

func (s *memoryStore) list() []models.Product {
	products := []models.Product{}
	for _, id := range s.ids {
		products = append(products, s.products[id])
	}
	return products
}

func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *memoryStore) FindAll(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(), nil
}

func (s *memoryStore) FindByCategory(_ context.Context, filter store.CategoryFilter) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterCalls++
	if s.filterErr != nil {
		return nil, s.filterErr
	}

	products := []models.Product{}
	for _, p := range s.list() {
		if filter.Category == "" || p.Category == filter.Category {
			products = append(products, p)
		}
	}
	if filter.Order != nil {
		less := func(a, b models.Product) bool {
			switch filter.Order.Key {
			case store.SortByName:
				return a.Name < b.Name
			case store.SortByCategory:
				return a.Category < b.Category
			case store.SortByPrice:
				return a.Price < b.Price
			case store.SortByQuantity:
				return a.Quantity < b.Quantity
			case store.SortByDiscount:
				return a.Discount < b.Discount
			default:
				return a.ID < b.ID
			}
		}
		sort.SliceStable(products, func(i, j int) bool {
			if filter.Order.Desc {
				return less(products[j], products[i])
			}
			return less(products[i], products[j])
		})
	}
	return products, nil
}

func (s *memoryStore) FindByID(_ context.Context, id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *memoryStore) FindByName(_ context.Context, name string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findNameErr != nil {
		return nil, s.findNameErr
	}
	if s.hideNames {
		return nil, store.ErrNotFound
	}
	for _, p := range s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memoryStore) nameTaken(name string, except uint) bool {
	for id, p := range s.products {
		if id != except && p.Name == name {
			return true
		}
	}
	return false
}

func (s *memoryStore) Insert(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.nameTaken(product.Name, 0) {
		return store.ErrDuplicateName
	}
	product.ID = s.nextID
	s.nextID++
	s.products[product.ID] = *product
	s.ids = append(s.ids, product.ID)
	s.inserts++
	return nil
}

func (s *memoryStore) Update(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return store.ErrNotFound
	}
	if s.nameTaken(product.Name, product.ID) {
		return store.ErrDuplicateName
	}
	s.products[product.ID] = *product
	s.updates++
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

type fakeUsers map[uint]models.UserStatus

func (f fakeUsers) FindUserByID(_ context.Context, id uint) (*models.User, error) {
	status, ok := f[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &models.User{ID: id, UserStatus: status}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// 測試用：以X-Test-User標頭模擬已解析的身分
func fakeIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(testUserID); id != "" {
			c.Set(middleware.IdentityKey, models.IdentityToken{models.UserIDClaim: id})
		}
		c.Next()
	}
}

func newProductRouter(s store.ProductStore) *gin.Engine {
	users := fakeUsers{adminID: models.StatusAdmin, userID: models.StatusUser, unknownID: models.UserStatus(3)}
	gate := middleware.NewAuthorizationGate(users, quietLogger())
	h := NewProductHandler(s, gate, view.JSONRenderer{}, quietLogger())

	r := gin.New()
	r.Use(fakeIdentity())
	r.GET("/products", h.GetAll)
	r.GET("/products/category", h.GetByCategory)
	r.POST("/products", h.Create)
	r.PATCH("/products/:productId", h.Update)
	r.PUT("/products/:productId", h.Update)
	r.DELETE("/products/:productId", h.Delete)
	return r
}

type response struct {
	Message  string            `json:"message"`
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields"`
	Products []models.Product  `json:"products"`
	Product  *models.Product   `json:"product"`
}

func do(t *testing.T, r http.Handler, method, target, user string, body any) (int, response) {
	t.Helper()
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	case string:
		reader = strings.NewReader(b)
		contentType = "application/json"
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set(testUserID, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

var errBoom = errors.New("boom")
