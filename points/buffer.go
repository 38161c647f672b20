// Package points holds the flat-buffer geometry math for the particle engine:
// resampling arbitrary vertex data to a fixed budget, normalizing it into the
// view volume, and synthesizing background and chaos distributions.
//
// All functions operate on Buffer, a flat float32 slice with three components
// per point: [x0,y0,z0, x1,y1,z1, ...]. Point i lives at offsets 3i..3i+2.
package points

// Buffer is a flat particle position buffer, three float32 components per point.
type Buffer []float32

// NewBuffer allocates a zeroed buffer for count points.
func NewBuffer(count int) Buffer {
	return make(Buffer, count*3)
}

// Count returns the number of points in the buffer.
func (b Buffer) Count() int {
	return len(b) / 3
}

// At returns the coordinates of point i.
func (b Buffer) At(i int) (x, y, z float32) {
	return b[i*3], b[i*3+1], b[i*3+2]
}

// Set writes the coordinates of point i.
func (b Buffer) Set(i int, x, y, z float32) {
	b[i*3] = x
	b[i*3+1] = y
	b[i*3+2] = z
}
