package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/nole/internal/core/domain"
)

// HashFrame computes a structural hash of a frame. It covers geometry and drawn
// content only, so identical pages hash identically across compiles.
func HashFrame(frame *domain.Frame) uint64 {
	h := xxhash.New()
	w := frameHasher{d: h}

	w.putFloat(frame.Size.W)
	w.putFloat(frame.Size.H)
	w.putUint(uint64(len(frame.Items)))

	for i := range frame.Items {
		item := &frame.Items[i]
		w.putUint(uint64(item.Kind))
		w.putFloat(item.Pos.X)
		w.putFloat(item.Pos.Y)

		switch item.Kind {
		case domain.ItemText:
			if t := item.Text; t != nil {
				w.putUint(uint64(t.Font))
				w.putFloat(t.Size)
				w.putColor(t.Fill)
				w.putString(t.Text)
			}
		case domain.ItemShape:
			if s := item.Shape; s != nil {
				w.putUint(uint64(s.Kind))
				w.putFloat(s.Size.W)
				w.putFloat(s.Size.H)
				w.putOptColor(s.Fill)
				w.putOptColor(s.Stroke)
				w.putFloat(s.StrokeWidth)
			}
		case domain.ItemImage:
			if img := item.Image; img != nil {
				w.putUint(xxhash.Sum64(img.Data))
				w.putString(img.Format)
				w.putFloat(img.Size.W)
				w.putFloat(img.Size.H)
			}
		}
		_, _ = h.Write([]byte{0}) // Separator
	}

	return h.Sum64()
}

type frameHasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (w *frameHasher) putUint(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:], v)
	_, _ = w.d.Write(w.buf[:])
}

func (w *frameHasher) putFloat(v float64) {
	w.putUint(math.Float64bits(v))
}

func (w *frameHasher) putString(s string) {
	w.putUint(uint64(len(s)))
	_, _ = w.d.WriteString(s)
}

func (w *frameHasher) putColor(c domain.Color) {
	_, _ = w.d.Write([]byte{c.R, c.G, c.B, c.A})
}

func (w *frameHasher) putOptColor(c *domain.Color) {
	if c == nil {
		_, _ = w.d.Write([]byte{0})
		return
	}
	_, _ = w.d.Write([]byte{1})
	w.putColor(*c)
}
