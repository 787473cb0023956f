package imageproc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/metrics"
)

// Optimizer implements the transform engine. It holds no per-request state,
// so identical input and profile give identical output.
type Optimizer struct {
	log zerolog.Logger
}

func NewOptimizer(log zerolog.Logger) *Optimizer {
	return &Optimizer{log: log.With().Str("component", "image-optimizer").Logger()}
}

// Optimize downsizes data to profile.MaxWidth (never enlarging) and re-encodes it.
func (o *Optimizer) Optimize(ctx context.Context, data []byte, profile domain.TransformProfile) (*domain.ImageVariant, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	profile = normalizeProfile(profile)

	src, err := decode(data)
	if err != nil {
		return nil, err
	}

	resized := fitWidth(src, profile.MaxWidth)

	var buf bytes.Buffer
	if err := encode(&buf, resized, profile); err != nil {
		return nil, fmt.Errorf("encode %s: %w", profile.Format, err)
	}

	bounds := resized.Bounds()
	variant := &domain.ImageVariant{
		Data:             buf.Bytes(),
		OriginalSize:     int64(len(data)),
		OptimizedSize:    int64(buf.Len()),
		CompressionRatio: domain.CompressionRatio(int64(len(data)), int64(buf.Len())),
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
		Format:           profile.Format,
	}
	metrics.RecordOptimization(string(profile.Format), variant.CompressionRatio)

	o.log.Debug().
		Int("width", variant.Width).
		Int("height", variant.Height).
		Int64("original_size", variant.OriginalSize).
		Int64("optimized_size", variant.OptimizedSize).
		Float64("compression_ratio", variant.CompressionRatio).
		Msg("image optimized")
	return variant, nil
}

// GenerateThumbnail crops data to a centered size x size square.
func (o *Optimizer) GenerateThumbnail(ctx context.Context, data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if size <= 0 {
		size = domain.ThumbnailSize
	}

	src, err := decode(data)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := encodeWebP(&buf, thumb, domain.ThumbnailQuality, domain.DefaultEffort); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateImageVariants builds the kind's main variant and a fixed-size
// thumbnail concurrently.
func (o *Optimizer) CreateImageVariants(ctx context.Context, data []byte, kind domain.EntityKind) (*domain.VariantSet, error) {
	var (
		main  *domain.ImageVariant
		thumb []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := o.Optimize(gctx, data, domain.ProfileFor(kind))
		if err != nil {
			return fmt.Errorf("main variant: %w", err)
		}
		main = v
		return nil
	})
	g.Go(func() error {
		t, err := o.GenerateThumbnail(gctx, data, domain.ThumbnailSize)
		if err != nil {
			return fmt.Errorf("thumbnail variant: %w", err)
		}
		thumb = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.VariantSet{
		Main:      main,
		Thumbnail: thumb,
		Metadata: domain.VariantMetadata{
			OriginalSize:     int64(len(data)),
			MainSize:         main.OptimizedSize,
			ThumbnailSize:    int64(len(thumb)),
			CompressionRatio: main.CompressionRatio,
		},
	}, nil
}

func normalizeProfile(profile domain.TransformProfile) domain.TransformProfile {
	profile.Format = domain.ParseFormat(string(profile.Format))
	if profile.Quality <= 0 || profile.Quality > 100 {
		profile.Quality = domain.DefaultQuality
	}
	// Zero means unset; method 0 is never requested explicitly.
	if profile.Effort <= 0 || profile.Effort > 6 {
		profile.Effort = domain.DefaultEffort
	}
	return profile
}

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// fitWidth scales img down to maxWidth keeping the aspect ratio. Images that
// already fit are returned untouched.
func fitWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || width <= maxWidth {
		return img
	}
	newHeight := int(math.Max(1, math.Round(float64(height)*float64(maxWidth)/float64(width))))
	return imaging.Resize(img, maxWidth, newHeight, imaging.Lanczos)
}

func encode(w io.Writer, img image.Image, profile domain.TransformProfile) error {
	switch profile.Format {
	case domain.FormatJPEG:
		// image/jpeg has no progressive mode; output is baseline.
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(profile.Quality))
	case domain.FormatPNG:
		// image/png exposes presets only; BestCompression is zlib level 9.
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		return encodeWebP(w, img, profile.Quality, profile.Effort)
	}
}

func encodeWebP(w io.Writer, img image.Image, quality, effort int) error {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("webp encoder options: %w", err)
	}
	options.Method = effort
	options.UseSharpYuv = true
	options.AlphaQuality = 100
	return webp.Encode(w, img, options)
}
