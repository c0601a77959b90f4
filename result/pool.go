package result

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 4096
	poolInitCap = 64
)

// byte buffer pool for outgoing text; the destructor registered with the
// engine returns the buffer here.
var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

func getBuf(n int) []byte {
	p := bufPool.Get().(*[]byte)
	if cap(*p) < n {
		*p = make([]byte, n)
	}
	return (*p)[:n]
}

func putBuf(buf []byte) {
	if cap(buf) > poolMaxCap {
		return // reject oversized
	}
	buf = buf[:0]
	bufPool.Put(&buf)
}
