package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortOrder(t *testing.T) {
	valid := map[string]SortOrder{
		"price":         {Key: SortByPrice},
		"price asc":     {Key: SortByPrice},
		"PRICE DESC":    {Key: SortByPrice, Desc: true},
		"name:desc":     {Key: SortByName, Desc: true},
		"-quantity":     {Key: SortByQuantity, Desc: true},
		"  discount  ":  {Key: SortByDiscount},
		"category\tasc": {Key: SortByCategory},
		"id":            {Key: SortByID},
	}
	for raw, want := range valid {
		got, err := ParseSortOrder(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestParseSortOrderRejectsAnythingElse(t *testing.T) {
	invalid := []string{
		"",
		"price; DROP TABLE products",
		"price desc, name",
		"(SELECT 1)",
		"photoUrl",
		"description",
		"price sideways",
		"-price desc",
		"price desc limit 1",
		"1",
	}
	for _, raw := range invalid {
		_, err := ParseSortOrder(raw)
		assert.True(t, errors.Is(err, ErrInvalidSort), raw)
	}
}

func TestSortOrderColumn(t *testing.T) {
	o, err := ParseSortOrder("-discount")
	require.NoError(t, err)
	assert.Equal(t, "discount", o.Column())
}
