package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/interfaces/httpserver/requests"
)

// multipartOverhead is headroom for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// readCandidate pulls the image part out of a multipart request. A missing
// part yields an empty candidate so intake reports it as missing_file.
func readCandidate(c *gin.Context, ceiling int64) (domain.UploadCandidate, error) {
	if ceiling > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ceiling+multipartOverhead)
	}

	header, err := c.FormFile(requests.ImageUploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.UploadCandidate{}, errBodyTooLarge
		}
		return domain.UploadCandidate{}, nil
	}

	file, err := header.Open()
	if err != nil {
		return domain.UploadCandidate{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.UploadCandidate{}, err
	}

	return domain.UploadCandidate{
		Data:             data,
		Filename:         header.Filename,
		DeclaredMIMEType: header.Header.Get("Content-Type"),
	}, nil
}
