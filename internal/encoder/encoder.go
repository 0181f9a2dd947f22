package encoder

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"midad/internal/domain"
)

// Encode reads the whole source body and returns it base64-encoded together
// with the declared media type. Size and type are not validated here.
func Encode(src domain.SourceFile) (*domain.EncodedDocument, error) {
	if src.Body == nil {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrEncoding, src.Name)
	}
	data, err := io.ReadAll(src.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrEncoding, src.Name, err)
	}
	return &domain.EncodedDocument{
		Name:          src.Name,
		MediaType:     src.MediaType,
		PayloadBase64: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// OpenFile opens a local file as a SourceFile. The media type comes from the
// extension when it is known, otherwise from the first 512 bytes.
// The caller must close the returned file.
func OpenFile(path string) (domain.SourceFile, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SourceFile{}, nil, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}

	mediaType, err := DetectMediaType(f, filepath.Base(path))
	if err != nil {
		_ = f.Close()
		return domain.SourceFile{}, nil, err
	}

	return domain.SourceFile{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Body:      f,
	}, f, nil
}

// DetectMediaType resolves a media type for name, sniffing rs when the
// extension is unknown. rs is rewound to the start afterwards.
func DetectMediaType(rs io.ReadSeeker, name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ct, ok := domain.ExtensionContentTypes[ext]; ok {
		return ct, nil
	}

	buf := make([]byte, 512)
	n, err := rs.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: reading file header: %w", domain.ErrEncoding, err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: seeking file: %w", domain.ErrEncoding, err)
	}
	return http.DetectContentType(buf[:n]), nil
}
