package fileaccess

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/yourname/fileaccess/internal/models"
)

// Read возвращает содержимое файла строкой. Двоичные данные (с нулевыми байтами) отвергаются.
func (s *Files) Read(ctx context.Context, path string, offset int64, size *int64) (models.ReadResult, error) {
	return s.read(ctx, path, offset, size, false)
}

// ReadBase64 возвращает содержимое файла в base64; результат в 4/3 раза длиннее запрошенного.
func (s *Files) ReadBase64(ctx context.Context, path string, offset int64, size *int64) (models.ReadResult, error) {
	return s.read(ctx, path, offset, size, true)
}

func (s *Files) read(ctx context.Context, path string, offset int64, size *int64, b64 bool) (models.ReadResult, error) {
	path, err := requirePath(path)
	if err != nil {
		return models.ReadResult{}, err
	}
	op := "read"
	if b64 {
		op = "readBase64"
	}
	s.Logger.Info(ctx, op, "file", path, "offset", offset)

	limit := s.maxRead()
	n := limit
	if size != nil && *size >= 0 {
		if *size > limit {
			return models.ReadResult{}, fmt.Errorf("%w: size too large, greater than %d byte limit", models.ErrInvalidArgument, limit)
		}
		n = *size
	}
	if offset < 0 {
		return models.ReadResult{}, fmt.Errorf("%w: offset out of range", models.ErrInvalidArgument)
	}

	data, err := readRange(path, offset, n)
	if err != nil {
		return models.ReadResult{}, err
	}

	if b64 {
		return models.ReadResult{Data: base64.StdEncoding.EncodeToString(data), Base64: true, Size: len(data)}, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return models.ReadResult{}, fmt.Errorf("%w: binary data not supported", models.ErrInvalidArgument)
	}

	return models.ReadResult{Data: string(data), Size: len(data)}, nil
}

// readRange читает не более n байт начиная с offset.
func readRange(path string, offset, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open file for reading: %v", models.ErrIO, err)
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: read error: %v", models.ErrIO, err)
	}
	if offset > end {
		return nil, fmt.Errorf("%w: offset out of range", models.ErrInvalidArgument)
	}
	if avail := end - offset; avail < n {
		n = avail
	}
	if _, err = f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: read error: %v", models.ErrIO, err)
	}

	buf := make([]byte, n)
	if _, err = io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: read error: %v", models.ErrIO, err)
	}

	return buf, nil
}
