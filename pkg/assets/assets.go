// Package assets reads the images a scene references: it probes their
// intrinsic size for layout, samples the backdrop's ambient colour and swaps
// backdrop and logo images in a scene.
//
// Image bytes come from an [Opener]. [FileOpener] reads from disk and
// [Router] sends http(s) sources to a remote fetcher. Decoding uses
// github.com/disintegration/imaging, which registers the JPEG, PNG, GIF,
// BMP and TIFF decoders.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/z9m/backdrop/pkg/cache"
	"github.com/z9m/backdrop/pkg/errors"
	"github.com/z9m/backdrop/pkg/httputil"
	"github.com/z9m/backdrop/pkg/observability"
)

// Opener returns the raw bytes of an image source.
type Opener interface {
	Open(ctx context.Context, src string) ([]byte, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, src string) ([]byte, error)

// Open implements Opener.
func (f OpenerFunc) Open(ctx context.Context, src string) ([]byte, error) { return f(ctx, src) }

// FileOpener reads images from disk. Relative sources, and sources with a
// leading slash when Root is set, are resolved under Root.
type FileOpener struct {
	Root string
}

// Open implements Opener.
func (o FileOpener) Open(ctx context.Context, src string) ([]byte, error) {
	path := strings.TrimPrefix(src, "file://")
	if o.Root != "" {
		rel := strings.TrimPrefix(path, "/")
		if err := errors.ValidatePath(rel); err != nil {
			return nil, err
		}
		path = filepath.Join(o.Root, rel)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", src)
	}
	return data, err
}

// Router sends remote sources to Remote and everything else to Local.
type Router struct {
	Remote *httputil.Fetcher
	Local  Opener
}

// Open implements Opener.
func (r Router) Open(ctx context.Context, src string) ([]byte, error) {
	if r.Remote != nil && r.Remote.IsRemote(src) {
		return r.Remote.Fetch(ctx, src)
	}
	if r.Local == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no local opener for %s", src)
	}
	return r.Local.Open(ctx, src)
}

// Prober reads image metadata through an Opener. Derived values are cached
// by content hash when a cache is configured.
type Prober struct {
	opener Opener
	cache  cache.Cache
	keyer  cache.Keyer
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithCache caches ambient colour samples in c.
func WithCache(c cache.Cache, k cache.Keyer) ProberOption {
	return func(p *Prober) {
		p.cache = c
		if k != nil {
			p.keyer = k
		}
	}
}

// NewProber returns a Prober reading through o.
func NewProber(o Opener, opts ...ProberOption) *Prober {
	p := &Prober{opener: o, cache: cache.NewNullCache(), keyer: cache.NewDefaultKeyer()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dimensions returns the intrinsic pixel size of the image at src without
// decoding the pixel data.
func (p *Prober) Dimensions(ctx context.Context, src string) (int, int, error) {
	data, err := p.opener.Open(ctx, src)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image header %s", src)
	}
	return cfg.Width, cfg.Height, nil
}

// Ambient returns the average border colour of the image at src, before
// any brightness correction.
func (p *Prober) Ambient(ctx context.Context, src string) (RGB, error) {
	data, err := p.opener.Open(ctx, src)
	if err != nil {
		return RGB{}, err
	}

	key := p.keyer.AssetKey(cache.Hash(data), cache.AssetKeyOpts{
		Kind:   "ambient",
		Sample: SampleSize,
		Border: SampleBorder,
	})
	if cached, ok, err := p.cache.Get(ctx, key); err == nil && ok {
		var c RGB
		if json.Unmarshal(cached, &c) == nil {
			observability.Cache().OnCacheHit(ctx, "asset")
			return c, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "asset")

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return RGB{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode image %s", src)
	}
	c := AverageBorder(img)

	if b, err := json.Marshal(c); err == nil {
		if p.cache.Set(ctx, key, b, cache.AssetTTL) == nil {
			observability.Cache().OnCacheSet(ctx, "asset", len(b))
		}
	}
	return c, nil
}

// RGB is an 8-bit colour.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Dim scales every channel by percent/100, rounding down.
func (c RGB) Dim(percent int) RGB {
	return RGB{R: c.R * percent / 100, G: c.G * percent / 100, B: c.B * percent / 100}
}

// Color converts c for colour math.
func (c RGB) Color() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

func clamp8(v int) int { return min(max(v, 0), 255) }
