package types

// Matrix is a dense real matrix. The reward pipeline uses it for the
// (miners × briefs) score and weight matrices; sizes stay small (hundreds of
// rows, tens of columns) so a plain slice-of-rows representation is enough.
type Matrix struct {
	rows, cols int
	data       [][]float64
}

// NewMatrix returns a zero matrix of the given shape.
func NewMatrix(rows, cols int) *Matrix {
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the cell (i, c).
func (m *Matrix) At(i, c int) float64 { return m.data[i][c] }

// Set writes the cell (i, c).
func (m *Matrix) Set(i, c int, v float64) { m.data[i][c] = v }

// Column returns a copy of column c.
func (m *Matrix) Column(c int) []float64 {
	col := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		col[i] = m.data[i][c]
	}
	return col
}

// SetColumn overwrites column c.
func (m *Matrix) SetColumn(c int, col []float64) {
	for i := 0; i < m.rows; i++ {
		m.data[i][c] = col[i]
	}
}

// ColumnSum returns the sum of column c.
func (m *Matrix) ColumnSum(c int) float64 {
	var s float64
	for i := 0; i < m.rows; i++ {
		s += m.data[i][c]
	}
	return s
}

// RowSum returns the sum of row i.
func (m *Matrix) RowSum(i int) float64 {
	var s float64
	for c := 0; c < m.cols; c++ {
		s += m.data[i][c]
	}
	return s
}

// Sum returns the sum over all cells.
func (m *Matrix) Sum() float64 {
	var s float64
	for i := 0; i < m.rows; i++ {
		for c := 0; c < m.cols; c++ {
			s += m.data[i][c]
		}
	}
	return s
}

// ScaleColumn multiplies column c by f.
func (m *Matrix) ScaleColumn(c int, f float64) {
	for i := 0; i < m.rows; i++ {
		m.data[i][c] *= f
	}
}

// Scale multiplies every cell by f.
func (m *Matrix) Scale(f float64) {
	for i := 0; i < m.rows; i++ {
		for c := 0; c < m.cols; c++ {
			m.data[i][c] *= f
		}
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		copy(out.data[i], m.data[i])
	}
	return out
}
