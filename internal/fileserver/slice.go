package fileserver

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/yourname/fileaccess/internal/models"
)

// ToEOF — размер среза «до конца файла».
const ToEOF int64 = math.MaxInt64

const sliceBufSize = 8 << 10

// GetSlice извлекает size байт начиная с offset в новый временный файл и возвращает его путь.
// Если диапазон покрывает файл целиком, возвращается исходный путь без копии и без списания квоты.
// Квота списывается до копирования и не возвращается при ошибке.
func (s *Server) GetSlice(path string, offset, size int64) (string, error) {
	if err := s.prepareTempDir(); err != nil {
		return "", err
	}
	if offset < 0 || size < 0 {
		return "", fmt.Errorf("%w: offset and size must be non-negative", models.ErrInvalidArgument)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot open file for reading: %v", models.ErrIO, err)
	}
	defer src.Close()

	actual, err := seekSize(src)
	if err != nil {
		return "", fmt.Errorf("%w: cannot determine file size: %v", models.ErrIO, err)
	}

	if offset == 0 && size >= actual {
		return path, nil
	}

	if offset > actual {
		return "", fmt.Errorf("%w: offset is beyond end of file", models.ErrInvalidArgument)
	}
	if size > actual-offset {
		size = actual - offset
	}

	if !s.limit.Reserve(1, size) {
		return "", models.ErrResourceExceeded
	}

	dst, err := s.createTemp(s.tempDir, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("%w: unable to create new file: %v", models.ErrIO, err)
	}
	defer dst.Close()

	if _, err = src.Seek(offset, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: error reading file: %v", models.ErrIO, err)
	}

	if err = copyExactly(dst, src, size); err != nil {
		return "", err
	}
	if err = dst.Close(); err != nil {
		return "", fmt.Errorf("%w: error writing to new file: %v", models.ErrIO, err)
	}

	s.log.Debug(context.Background(), "slice written", "src", path, "offset", offset, "size", size, "dst", dst.Name())

	return dst.Name(), nil
}

// copyExactly переносит ровно n байт из src в dst через буфер фиксированного размера.
func copyExactly(dst io.Writer, src io.Reader, n int64) error {
	buf := make([]byte, sliceBufSize)
	for n > 0 {
		amt := int64(len(buf))
		if n < amt {
			amt = n
		}

		rd, err := io.ReadFull(src, buf[:amt])
		if err != nil {
			return fmt.Errorf("%w: error reading file: %v", models.ErrIO, err)
		}
		if _, err = dst.Write(buf[:rd]); err != nil {
			return fmt.Errorf("%w: error writing to new file: %v", models.ErrIO, err)
		}

		n -= int64(rd)
	}
	return nil
}
