package store

import (
	"context"

	"catalog/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already exists")
)

// 整列覆寫時寫入的欄位
var mutableColumns = []string{"name", "category", "photo_url", "quantity", "description", "price", "discount"}

// CategoryFilter Category為空時不加分類條件，Order為nil時依資料庫原始順序
type CategoryFilter struct {
	Category string
	Order    *SortOrder
}

type ProductStore interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, filter CategoryFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type GormProductStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewGormProductStore(db *gorm.DB, logger *logrus.Logger) *GormProductStore {
	return &GormProductStore{db: db, log: logger}
}

func (s *GormProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *GormProductStore) FindByCategory(ctx context.Context, filter CategoryFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Order != nil {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: filter.Order.Column()},
			Desc:   filter.Order.Desc,
		})
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, errors.Wrapf(err, "list products of category %q", filter.Category)
	}
	s.log.WithFields(logrus.Fields{
		"category": filter.Category,
		"count":    len(products),
	}).Debug("filtered products")
	return products, nil
}

func (s *GormProductStore) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find product %d", id)
	}
	return &product, nil
}

func (s *GormProductStore) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find product named %q", name)
	}
	return &product, nil
}

func (s *GormProductStore) Insert(ctx context.Context, product *models.Product) error {
	err := s.db.WithContext(ctx).Create(product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return errors.Wrapf(err, "insert product %q", product.Name)
	}
	s.log.WithField("productID", product.ID).Info("product inserted")
	return nil
}

// Update 以單一UPDATE覆寫七個欄位，未變更的欄位也會寫回
func (s *GormProductStore) Update(ctx context.Context, product *models.Product) error {
	err := s.db.WithContext(ctx).
		Model(product).
		Select(mutableColumns).
		Updates(product).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return errors.Wrapf(err, "update product %d", product.ID)
	}
	s.log.WithField("productID", product.ID).Info("product updated")
	return nil
}

func (s *GormProductStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete product %d", id)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.log.WithField("productID", id).Info("product deleted")
	return nil
}
