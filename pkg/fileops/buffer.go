package fileops

import "sync"

// bufferPool hands out copy buffers so a batch of small files does not allocate a
// fresh chunk per file. Buffers of a different size than requested are dropped.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{}
}

// get returns a buffer of exactly size bytes.
func (bp *bufferPool) get(size int) *[]byte {
	if buf, ok := bp.pool.Get().(*[]byte); ok && cap(*buf) >= size {
		*buf = (*buf)[:size]
		return buf
	}

	buf := make([]byte, size)

	return &buf
}

func (bp *bufferPool) put(buf *[]byte) {
	if buf == nil {
		return
	}

	*buf = (*buf)[:cap(*buf)]
	bp.pool.Put(buf)
}
