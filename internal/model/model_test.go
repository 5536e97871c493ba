package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableQuantityIsDerived(t *testing.T) {
	rec := PoolRecord{TotalQuantity: 100, ReservedQuantity: 30}
	assert.Equal(t, 70, rec.AvailableQuantity())

	rec.ReservedQuantity = 0
	assert.Equal(t, 100, rec.AvailableQuantity())
}

func TestLocationKindValid(t *testing.T) {
	assert.True(t, KindWarehouse.Valid())
	assert.True(t, KindStore.Valid())
	assert.False(t, LocationKind("depot").Valid())
	assert.False(t, LocationKind("").Valid())
}
