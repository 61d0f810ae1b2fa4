package system

import (
	"image"
	"sync"
)

// NRGBAPool переиспользует NRGBA-буферы, по одному sync.Pool на размер.
// Все вырезки одного запуска имеют одно разрешение, поэтому после первого
// слайда буфер для конвертации берется из пула, а не из кучи.
//
// Карта размеров не очищается: процесс живет один запуск с фиксированным
// IMAGE_WIDTH x IMAGE_HEIGHT, так что в ней остается один-два ключа.
type NRGBAPool struct {
	mu    sync.Mutex
	pools map[image.Rectangle]*sync.Pool
}

var nrgbaPool = &NRGBAPool{pools: make(map[image.Rectangle]*sync.Pool)}

// AcquireNRGBA returns a buffer with exactly the given bounds. Its contents are
// undefined; callers overwrite every pixel.
func AcquireNRGBA(rect image.Rectangle) *image.NRGBA {
	return nrgbaPool.Acquire(rect)
}

// ReleaseNRGBA hands the buffer back for reuse.
func ReleaseNRGBA(img *image.NRGBA) {
	nrgbaPool.Release(img)
}

func (p *NRGBAPool) Acquire(rect image.Rectangle) *image.NRGBA {
	return p.poolFor(rect).Get().(*image.NRGBA)
}

func (p *NRGBAPool) Release(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.poolFor(img.Rect).Put(img)
}

func (p *NRGBAPool) poolFor(rect image.Rectangle) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[rect]
	if !ok {
		pool = &sync.Pool{
			New: func() any { return image.NewNRGBA(rect) },
		}
		p.pools[rect] = pool
	}
	return pool
}
