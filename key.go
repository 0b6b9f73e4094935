package watermark

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/yyyoichi/watermark_rdh/internal/bitconv"
	"github.com/yyyoichi/watermark_rdh/internal/watermark"
)

// Key holds everything Extract needs to undo an Embed: the analysis result,
// the cover and mark sizes and the save points of the shift.
type Key struct {
	Peak, Secondary, EmbedPoint uint8
	Width, Height               int
	MarkWidth, MarkHeight       int
	SavePoints                  SavePoints
}

var keyMagic = [4]byte{'R', 'D', 'H', '1'}

const (
	keyVersion    = 1
	keyHeaderSize = len(keyMagic) + 1 + 3 + 4*4
	// 1<<31 pixels is far beyond any cover the package is used with.
	maxKeyPixels = 1 << 31
)

// MarshalBinary encodes the key as
//
//	"RDH1" | version | peak | secondary | embed point |
//	width | height | mark width | mark height (uint32, big endian) |
//	zstd frame of the save-point mask, one bit per pixel in row-major order
func (k *Key) MarshalBinary() ([]byte, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(keyHeaderSize)
	_, _ = buf.Write(keyMagic[:])
	_ = buf.WriteByte(keyVersion)
	_ = buf.WriteByte(k.Peak)
	_ = buf.WriteByte(k.Secondary)
	_ = buf.WriteByte(k.EmbedPoint)
	for _, v := range []int{k.Width, k.Height, k.MarkWidth, k.MarkHeight} {
		_ = binary.Write(&buf, binary.BigEndian, uint32(v))
	}
	_, _ = buf.Write(compressZstd(bitconv.BoolsToBytes(k.SavePoints.Mask())))
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a key written by MarshalBinary.
// Malformed input fails with ErrInvalidKey.
func (k *Key) UnmarshalBinary(data []byte) error {
	if len(data) < keyHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(data))
	}
	if !bytes.Equal(data[:len(keyMagic)], keyMagic[:]) {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidKey, data[:len(keyMagic)])
	}
	data = data[len(keyMagic):]
	if data[0] != keyVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidKey, data[0])
	}
	var tmp Key
	tmp.Peak, tmp.Secondary, tmp.EmbedPoint = data[1], data[2], data[3]
	data = data[4:]
	dims := make([]int, 4)
	for i := range dims {
		dims[i] = int(binary.BigEndian.Uint32(data[i*4:]))
	}
	data = data[16:]
	tmp.Width, tmp.Height, tmp.MarkWidth, tmp.MarkHeight = dims[0], dims[1], dims[2], dims[3]
	if uint64(tmp.Width)*uint64(tmp.Height) > maxKeyPixels {
		return fmt.Errorf("%w: cover %dx%d too large", ErrInvalidKey, tmp.Width, tmp.Height)
	}

	packed, err := decompressZstd(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	area := tmp.Width * tmp.Height
	if len(packed) != (area+7)/8 {
		return fmt.Errorf("%w: %d mask bytes for %dx%d", ErrInvalidKey, len(packed), tmp.Width, tmp.Height)
	}
	tmp.SavePoints, err = NewSavePoints(tmp.Width, tmp.Height, bitconv.BytesToBools(packed, area))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if err := tmp.validate(); err != nil {
		return err
	}
	*k = tmp
	return nil
}

func (k *Key) validate() error {
	if k.Peak == k.Secondary || k.EmbedPoint != watermark.EmbedPoint(k.Peak, k.Secondary) {
		return fmt.Errorf("%w: peak %d, secondary %d, embed point %d", ErrInvalidKey, k.Peak, k.Secondary, k.EmbedPoint)
	}
	if k.Width < 0 || k.Height < 0 || k.MarkWidth < 0 || k.MarkHeight < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidKey)
	}
	if mask := k.SavePoints.Mask(); len(mask) != k.Width*k.Height {
		return fmt.Errorf("%w: %d save-point entries for %dx%d", ErrInvalidKey, len(mask), k.Width, k.Height)
	}
	return nil
}

var (
	zstdEncPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil,
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			)
			if err != nil {
				panic(err)
			}
			return enc
		},
	}
	zstdDecPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil,
				zstd.WithDecoderConcurrency(1),
				zstd.WithDecoderMaxMemory(maxKeyPixels/8+1),
			)
			if err != nil {
				panic(err)
			}
			return dec
		},
	}
)

func compressZstd(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	enc := zstdEncPool.Get().(*zstd.Encoder)
	defer zstdEncPool.Put(enc)
	return enc.EncodeAll(data, nil)
}

func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := zstdDecPool.Get().(*zstd.Decoder)
	defer zstdDecPool.Put(dec)
	return dec.DecodeAll(data, nil)
}
