package fileserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yourname/fileaccess/internal/models"
)

// GetFileChunks делит файл на куски не больше chunkSize байт, каждый в отдельном
// временном файле. Файл, помещающийся в один кусок, возвращается как есть без копии.
//
// Квота проверяется и списывается по оценке size/chunkSize с округлением вниз,
// а не по фактическому числу кусков.
func (s *Server) GetFileChunks(path string, chunkSize int64) ([]models.ChunkInfo, error) {
	ctx := context.Background()

	if err := s.prepareTempDir(); err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size is invalid", models.ErrInvalidArgument)
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open file for reading: %v", models.ErrIO, err)
	}
	defer src.Close()

	size, err := seekSize(src)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot determine file size: %v", models.ErrIO, err)
	}
	s.log.Debug(ctx, "chunking file", "path", path, "size", size, "chunk_size", chunkSize)
	if size <= 0 {
		// нулевой файл отвергается с тем же сообщением, что и неверный размер куска
		return nil, fmt.Errorf("%w: chunk size is invalid", models.ErrInvalidArgument)
	}

	estimate := size / chunkSize
	if s.limit.WouldExceed(estimate, size) {
		return nil, models.ErrResourceExceeded
	}

	if size <= chunkSize {
		return []models.ChunkInfo{{Path: path, ChunkNumber: 1, TotalChunks: 1}}, nil
	}

	plan := models.PlanChunks(size, chunkSize)
	chunks := make([]models.ChunkInfo, 0, plan.Total)
	base := filepath.Base(path)

	var total int64
	for n := 0; n < plan.Total; n++ {
		want := plan.Size
		if n == plan.Total-1 {
			want = plan.Last
		}

		written, chunkPath, err := s.writeChunk(src, base, n, want)
		if err != nil {
			return nil, err
		}
		if written != want {
			// файл укоротился после определения размера
			return nil, fmt.Errorf("%w: error reading file: unexpected end of file at %d of %d bytes", models.ErrIO, total+written, size)
		}
		total += written
		s.log.Debug(ctx, "chunk written", "file", chunkPath, "read", written, "total_read", total)

		chunks = append(chunks, models.ChunkInfo{Path: chunkPath, ChunkNumber: n})
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	s.limit.NoteUsage(estimate, size)

	return chunks, nil
}

// writeChunk копирует следующие не более chunkSize байт из src в новый временный файл.
func (s *Server) writeChunk(src io.Reader, base string, n int, chunkSize int64) (int64, string, error) {
	dst, err := s.createTemp(s.tempDir, fmt.Sprintf("%s_chunk-%d_", base, n))
	if err != nil {
		return 0, "", fmt.Errorf("%w: unable to open temp chunk file: %v", models.ErrIO, err)
	}

	limited := &io.LimitedReader{R: src, N: chunkSize}
	written, err := io.Copy(dst, limited)
	if err != nil {
		_ = dst.Close()
		return 0, "", fmt.Errorf("%w: error copying to temp chunk file: %v", models.ErrIO, err)
	}
	if err = dst.Close(); err != nil {
		return 0, "", fmt.Errorf("%w: error writing to temp chunk file: %v", models.ErrIO, err)
	}

	return written, dst.Name(), nil
}

// seekSize определяет размер файла переходом в конец и обратно.
func seekSize(f *os.File) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
