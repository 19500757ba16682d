// Package avatar turns uploaded profile pictures into small square PNGs.
package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	// Register decoders for the formats browsers upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	// MaxUploadSize is the largest accepted upload, 5 MiB.
	MaxUploadSize = 5 << 20
	// Size is the edge length of the normalized avatar.
	Size = 256

	dataURLPrefix = "data:image/png;base64,"
)

var (
	ErrTooLarge     = errors.New("avatar image exceeds 5 MiB")
	ErrInvalidImage = errors.New("avatar is not a decodable image")
)

// Processor normalizes avatars with bounded concurrency; decoding large images is memory hungry.
type Processor struct {
	sem *semaphore.Weighted
}

func NewProcessor(concurrency int64) *Processor {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Processor{sem: semaphore.NewWeighted(concurrency)}
}

// Normalize decodes data, center-crops and resizes it to Size×Size and returns PNG bytes.
func (p *Processor) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "failed to acquire avatar slot")
	}
	defer p.sem.Release(1)

	return Normalize(data)
}

// Normalize is the unthrottled form of Processor.Normalize.
func Normalize(data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidImage, "%s", err)
	}
	return encode(imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos))
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "failed to encode avatar")
	}
	return buf.Bytes(), nil
}

// DataURL embeds PNG bytes into a data URL suitable for User.AvatarURL.
func DataURL(png []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png)
}

// ParseDataURL reverses DataURL. ok is false for anything that is not an embedded PNG,
// such as a remote picture URL from Google.
func ParseDataURL(url string) (png []byte, ok bool) {
	encoded, found := strings.CutPrefix(url, dataURLPrefix)
	if !found {
		return nil, false
	}
	png, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}
	return png, true
}
