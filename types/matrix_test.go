package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix_SumsAndScaling(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Set(0, 0, 1)
	m.Set(0, 2, 2)
	m.Set(1, 1, 3)
	m.Set(1, 2, 4)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3.0, m.RowSum(0))
	assert.Equal(t, 7.0, m.RowSum(1))
	assert.Equal(t, 6.0, m.ColumnSum(2))
	assert.Equal(t, 10.0, m.Sum())

	m.ScaleColumn(2, 0.5)
	assert.Equal(t, []float64{1, 2}, m.Column(2))

	m.Scale(2)
	assert.Equal(t, 14.0, m.Sum())
}

func TestMatrix_SetColumn(t *testing.T) {
	m := NewMatrix(3, 2)
	m.SetColumn(1, []float64{1, 2, 3})
	assert.Equal(t, []float64{1, 2, 3}, m.Column(1))
	assert.Equal(t, []float64{0, 0, 0}, m.Column(0))
}

func TestMatrix_CloneIsIndependent(t *testing.T) {
	m := NewMatrix(1, 1)
	m.Set(0, 0, 5)
	c := m.Clone()
	c.Set(0, 0, 9)
	assert.Equal(t, 5.0, m.At(0, 0))
	assert.Equal(t, 9.0, c.At(0, 0))
}
