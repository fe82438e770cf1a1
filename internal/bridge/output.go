package bridge

import "sync"

// Dimensions 是终端的列数与行数。
type Dimensions struct {
	Columns int
	Rows    int
}

// DefaultDimensions 在宿主未提供尺寸时使用。
var DefaultDimensions = Dimensions{Columns: 80, Rows: 24}

func (d Dimensions) Valid() bool {
	return d.Columns > 0 && d.Rows > 0
}

// OutputAdapter 把渲染器写出的字节同步转发给宿主的显示通道。
// 输出里包含光标控制序列，顺序有意义：不缓冲、不重排、不丢弃。
type OutputAdapter struct {
	writeMu sync.Mutex
	sink    func(string)

	dimsMu sync.RWMutex
	dims   Dimensions
}

func NewOutputAdapter(dims Dimensions, sink func(string)) *OutputAdapter {
	if !dims.Valid() {
		dims = DefaultDimensions
	}
	return &OutputAdapter{sink: sink, dims: dims}
}

func (o *OutputAdapter) Write(p []byte) (int, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()
	if o.sink != nil && len(p) > 0 {
		o.sink(string(p))
	}
	return len(p), nil
}

// UpdateDimensions 原地替换尺寸，非正的字段保持不变。不会触发重绘。
func (o *OutputAdapter) UpdateDimensions(next Dimensions) {
	o.dimsMu.Lock()
	defer o.dimsMu.Unlock()
	if next.Columns > 0 {
		o.dims.Columns = next.Columns
	}
	if next.Rows > 0 {
		o.dims.Rows = next.Rows
	}
}

func (o *OutputAdapter) Dimensions() Dimensions {
	o.dimsMu.RLock()
	defer o.dimsMu.RUnlock()
	return o.dims
}

func (o *OutputAdapter) Columns() int { return o.Dimensions().Columns }

func (o *OutputAdapter) Rows() int { return o.Dimensions().Rows }
