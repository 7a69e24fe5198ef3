package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("only PDF and image files are allowed")
	ErrNoFile              = errors.New("no file provided")
)

const maxFileNameSize = 255

// DocumentValidator checks a single uploaded file against the size limit
// and the MIME allow-list. The multipart header is checked first since
// it's cheap, then the actual content is sniffed to catch clients lying
// about the type. Returns the opened file positioned at the start plus
// the detected MIME type.
func DocumentValidator(fh *multipart.FileHeader) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoFile
	}

	allowed := viper.GetStringSlice("upload.allowed_types")

	ct := fh.Header.Get("Content-Type")
	if len(allowed) > 0 && !slices.Contains(allowed, ct) {
		return http.StatusBadRequest, nil, "", ErrFileTypeUnsupported
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, "", ErrFileNameTooLong
	}

	maxFileSize := viper.GetInt64("upload.max_size")
	if fh.Size > maxFileSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	// And now do the checks on the actual file to avoid
	// malicious clients
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if len(allowed) > 0 && !slices.ContainsFunc(allowed, mime.Is) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, mime.String(), nil
}
