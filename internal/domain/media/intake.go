package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// MaxImageDimension bounds width and height of accepted images.
const MaxImageDimension = 8000

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var allowedMIMEPattern = regexp.MustCompile(`^image/(jpeg|jpg|png|gif|webp)$`)

var sniffedImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// AcceptUpload gates a candidate on declared type and raw size. It never decodes.
func AcceptUpload(candidate UploadCandidate, ceiling int64) error {
	if len(candidate.Data) == 0 && strings.TrimSpace(candidate.Filename) == "" {
		return &RejectionError{
			Reason:  ReasonMissingFile,
			Title:   "No file uploaded",
			Details: "Please select an image file to upload",
		}
	}
	if !allowedExtension(candidate.Filename) || !allowedMIME(candidate.DeclaredMIMEType) {
		return &RejectionError{
			Reason:  ReasonInvalidFileType,
			Title:   "Invalid file type",
			Details: "Only image files are allowed (jpeg, jpg, png, gif, webp)",
		}
	}
	if ceiling > 0 && int64(len(candidate.Data)) >= ceiling {
		return FileTooLarge(ceiling)
	}
	if len(candidate.Data) == 0 {
		return &RejectionError{
			Reason:  ReasonMissingFile,
			Title:   "No file uploaded",
			Details: "The uploaded file is empty",
		}
	}
	return nil
}

// FileTooLarge is the rejection for uploads at or above ceiling bytes.
func FileTooLarge(ceiling int64) *RejectionError {
	return &RejectionError{
		Reason:  ReasonFileTooLarge,
		Title:   "File too large",
		Details: fmt.Sprintf("Maximum file size is %s", humanBytes(ceiling)),
	}
}

// InspectImage decodes only the header of data.
func InspectImage(data []byte) (*ImageMetadata, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image metadata: %w", err)
	}
	return &ImageMetadata{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// CheckImage is the content-based validation layer. It returns a
// *RejectionError describing why data cannot be used, or nil.
func CheckImage(data []byte, maxDimension int) error {
	if maxDimension <= 0 {
		maxDimension = MaxImageDimension
	}
	if _, ok := sniffedImageMIMEs[mimetype.Detect(data).String()]; !ok {
		return invalidImage()
	}
	meta, err := InspectImage(data)
	if err != nil || meta.Format == "" || meta.Width <= 0 || meta.Height <= 0 {
		return invalidImage()
	}
	if meta.Width > maxDimension || meta.Height > maxDimension {
		return &RejectionError{
			Reason:  ReasonDimensionsTooLarge,
			Title:   "Invalid image",
			Details: fmt.Sprintf("Image dimensions too large (max %dx%d)", maxDimension, maxDimension),
		}
	}
	return nil
}

// ValidateImage reports whether data decodes as a supported image within
// the default dimension limit. It never panics or returns an error.
func ValidateImage(data []byte) bool {
	return CheckImage(data, MaxImageDimension) == nil
}

func invalidImage() *RejectionError {
	return &RejectionError{
		Reason:  ReasonInvalidImage,
		Title:   "Invalid image",
		Details: "File is not a valid image",
	}
}

func allowedExtension(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

func allowedMIME(declared string) bool {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return allowedMIMEPattern.MatchString(mime)
}

// NormalizeContentType maps a declared MIME type onto its canonical form.
func NormalizeContentType(declared string) string {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if mime == "image/jpg" {
		return "image/jpeg"
	}
	return mime
}

func humanBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
