package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Import for GIF decoding support
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/phototrack/attendance-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

// ErrProcessingFailed is the single error surfaced for any decode, resize,
// encode, or write failure while storing a rendition. Callers cannot tell
// the stages apart.
var ErrProcessingFailed = errors.New("failed to process image")

const (
	// Comparison grid for the identity gate. Both inputs are reduced to
	// this size before the pixel difference is taken.
	compareWidth  = 100
	compareHeight = 100

	// Stored renditions fit within these bounds without enlargement.
	storedMaxWidth  = 800
	storedMaxHeight = 600
	storedQuality   = 85

	// DefaultThreshold is the similarity a candidate must exceed (strictly)
	// to pass verification.
	DefaultThreshold = 0.7
)

type Service interface {
	// Similarity scores two encoded images in [0,1]. It never fails: any
	// undecodable input yields 0, keeping the gate closed.
	Similarity(imageA, imageB string) float64

	// Verify runs the gate: verified means similarity strictly above the
	// configured threshold.
	Verify(reference, candidate string) (verified bool, similarity float64)

	// ProcessAndStore compresses the captured image, persists it under a
	// name derived from the event, and returns the storage filename plus a
	// data URL of the compressed bytes.
	ProcessAndStore(ctx context.Context, encoded string, email string, kind string, occurredAt time.Time) (path string, dataURL string, err error)
}

type processor struct {
	storage   storage.FileStorage
	threshold float64
}

func NewService(fileStorage storage.FileStorage, threshold float64) Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &processor{storage: fileStorage, threshold: threshold}
}

var dataURLPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// decode strips an optional data-URL prefix, base64-decodes the payload and
// decodes the image bytes.
func decode(encoded string) (image.Image, error) {
	payload := dataURLPrefix.ReplaceAllString(encoded, "")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// normalize reduces an encoded image to a width*height single-channel
// buffer: cover fit (center crop preserving aspect), then grayscale. The
// same input bytes always produce the same buffer.
func normalize(encoded string, width, height int) ([]byte, error) {
	img, err := decode(encoded)
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(gray, gray.Bounds(), img, coverRect(img.Bounds(), width, height), draw.Src, nil)
	return gray.Pix, nil
}

// coverRect returns the centered source rectangle with the target's aspect
// ratio, so scaling it fills the target exactly (crop-to-fill).
func coverRect(src image.Rectangle, width, height int) image.Rectangle {
	srcW, srcH := src.Dx(), src.Dy()

	if srcW*height > width*srcH {
		// Source is wider than the target: crop left and right.
		cropW := srcH * width / height
		x0 := src.Min.X + (srcW-cropW)/2
		return image.Rect(x0, src.Min.Y, x0+cropW, src.Max.Y)
	}

	// Source is taller: crop top and bottom.
	cropH := srcW * height / width
	y0 := src.Min.Y + (srcH-cropH)/2
	return image.Rect(src.Min.X, y0, src.Max.X, y0+cropH)
}

// Similarity implements the mean absolute pixel difference over the
// normalized buffers. This is a crude brightness-proximity metric, not a
// perceptual or structural one: it is sensitive to cropping and lighting
// and must stay that way, because stored reference photos were scored with
// the same metric.
func (p *processor) Similarity(imageA, imageB string) float64 {
	bufA, err := normalize(imageA, compareWidth, compareHeight)
	if err != nil {
		return 0
	}
	bufB, err := normalize(imageB, compareWidth, compareHeight)
	if err != nil {
		return 0
	}

	var sum float64
	for i := range bufA {
		diff := int(bufA[i]) - int(bufB[i])
		if diff < 0 {
			diff = -diff
		}
		sum += float64(255-diff) / 255
	}
	return sum / float64(len(bufA))
}

func (p *processor) Verify(reference, candidate string) (bool, float64) {
	similarity := p.Similarity(reference, candidate)
	return similarity > p.threshold, similarity
}

func (p *processor) ProcessAndStore(ctx context.Context, encoded string, email string, kind string, occurredAt time.Time) (string, string, error) {
	img, err := decode(encoded)
	if err != nil {
		slog.Error("Failed to decode captured image", "error", err)
		return "", "", ErrProcessingFailed
	}

	resized := fitInside(img, storedMaxWidth, storedMaxHeight)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: storedQuality}); err != nil {
		slog.Error("Failed to encode rendition", "error", err)
		return "", "", ErrProcessingFailed
	}
	compressed := buf.Bytes()

	filename := renditionFilename(email, kind, occurredAt)
	if _, err := p.storage.Upload(ctx, bytes.NewReader(compressed), filename, "image/jpeg"); err != nil {
		slog.Error("Failed to store rendition", "error", err)
		return "", "", ErrProcessingFailed
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(compressed)
	return filename, dataURL, nil
}

// fitInside scales the image to fit within maxWidth x maxHeight preserving
// aspect ratio, never enlarging beyond the original size.
func fitInside(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth && h <= maxHeight {
		return img
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

var timestampSanitizer = strings.NewReplacer(":", "-", ".", "-")

// renditionFilename derives a filesystem-safe name from the event itself,
// not from wall clock at call time.
func renditionFilename(email string, kind string, occurredAt time.Time) string {
	ts := occurredAt.UTC()
	dateStr := ts.Format("2006-01-02")
	timeStr := timestampSanitizer.Replace(ts.Format("2006-01-02T15:04:05.000")) + "Z"
	return fmt.Sprintf("%s_%s_%s_%s.jpg", email, kind, dateStr, timeStr)
}
