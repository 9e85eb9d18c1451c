package stats

// RollingWindow is a fixed-size trailing buffer of observations. It keeps
// exactly the last `size` pushed values and computes statistics over them,
// so a consumer that reads stats before pushing the current observation
// never sees data from the observation itself.
type RollingWindow struct {
	size   int
	values []float64
	head   int
	count  int
}

// NewRollingWindow 创建固定长度的滚动窗口
func NewRollingWindow(size int) *RollingWindow {
	if size <= 0 {
		size = 1
	}
	return &RollingWindow{
		size:   size,
		values: make([]float64, size),
	}
}

// Push adds an observation, evicting the oldest once the window is full.
func (w *RollingWindow) Push(v float64) {
	w.values[w.head] = v
	w.head = (w.head + 1) % w.size
	if w.count < w.size {
		w.count++
	}
}

// Full reports whether the window holds `size` observations.
func (w *RollingWindow) Full() bool {
	return w.count == w.size
}

// Len returns the number of observations currently held.
func (w *RollingWindow) Len() int {
	return w.count
}

// Mean 计算窗口均值
func (w *RollingWindow) Mean() float64 {
	if w.count == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.values[i]
	}
	return sum / float64(w.count)
}

// SampleStd returns the sample standard deviation (ddof=1) of the window
// contents. NaN for fewer than two observations.
func (w *RollingWindow) SampleStd() float64 {
	return SampleStdDev(w.values[:w.count])
}

// Reset 清空窗口
func (w *RollingWindow) Reset() {
	w.head = 0
	w.count = 0
}
