package store

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidSort = errors.New("invalid sort order")

// SortKey 允許排序的欄位，不在此清單內一律拒絕
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByName     SortKey = "name"
	SortByCategory SortKey = "category"
	SortByPrice    SortKey = "price"
	SortByQuantity SortKey = "quantity"
	SortByDiscount SortKey = "discount"
)

var sortColumns = map[SortKey]string{
	SortByID:       "id",
	SortByName:     "name",
	SortByCategory: "category",
	SortByPrice:    "price",
	SortByQuantity: "quantity",
	SortByDiscount: "discount",
}

type SortOrder struct {
	Key  SortKey
	Desc bool
}

func (o SortOrder) Column() string {
	return sortColumns[o.Key]
}

// ParseSortOrder 解析order參數，接受 "price"、"price desc"、"price:asc"、"-price"
func ParseSortOrder(raw string) (SortOrder, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SortOrder{}, errors.Wrap(ErrInvalidSort, "empty order")
	}

	var order SortOrder
	if strings.HasPrefix(s, "-") {
		order.Desc = true
		s = s[1:]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ':' || r == '\t'
	})
	switch len(parts) {
	case 1:
	case 2:
		if order.Desc {
			return SortOrder{}, errors.Wrapf(ErrInvalidSort, "%q", raw)
		}
		switch parts[1] {
		case "asc":
		case "desc":
			order.Desc = true
		default:
			return SortOrder{}, errors.Wrapf(ErrInvalidSort, "unknown direction %q", parts[1])
		}
	default:
		return SortOrder{}, errors.Wrapf(ErrInvalidSort, "%q", raw)
	}

	order.Key = SortKey(parts[0])
	if _, ok := sortColumns[order.Key]; !ok {
		return SortOrder{}, errors.Wrapf(ErrInvalidSort, "unknown key %q", parts[0])
	}
	return order, nil
}
