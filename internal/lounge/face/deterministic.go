package face

import (
	"context"
	"encoding/binary"
	"errors"
	"image"
	"io"
	"math"

	"github.com/zeebo/blake3"
)

// DeterministicExtractor derives a signature from a BLAKE3 hash of the image
// bytes. It exists for tests and local demos: the same bytes always give the
// same signature, but two photos of one person do not match. Never select it
// in production.
//
// An image whose pixels are all the same colour is reported as NoFace, which
// gives tests a way to exercise that path.
type DeterministicExtractor struct {
	dim int
}

func NewDeterministicExtractor(dim int) *DeterministicExtractor {
	if dim <= 0 {
		dim = 128
	}
	return &DeterministicExtractor{dim: dim}
}

func (e *DeterministicExtractor) Extract(ctx context.Context, img []byte) (Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decoded, err := decodeImage(img)
	if err != nil {
		return nil, err
	}
	if blank(decoded) {
		return nil, failure(NoFace, errors.New("uniform image"))
	}

	h := blake3.New()
	_, _ = h.Write(img)
	xof := h.Digest()

	raw := make([]float64, e.dim)
	var buf [4]byte
	for i := range raw {
		if _, err := io.ReadFull(xof, buf[:]); err != nil {
			return nil, err
		}
		u := binary.LittleEndian.Uint32(buf[:])
		raw[i] = float64(u)/math.MaxUint32*2 - 1
	}
	return finish(raw, e.dim)
}

func blank(img image.Image) bool {
	b := img.Bounds()
	r0, g0, b0, a0 := img.At(b.Min.X, b.Min.Y).RGBA()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r != r0 || g != g0 || bl != b0 || a != a0 {
				return false
			}
		}
	}
	return true
}
