package fileaccess

import (
	"context"
	"fmt"

	"github.com/yourname/fileaccess/internal/fileserver"
	"github.com/yourname/fileaccess/internal/fsutil"
	"github.com/yourname/fileaccess/internal/models"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

// GetURL регистрирует файл и возвращает loopback URL для его скачивания.
func (s *Files) GetURL(ctx context.Context, path string) (string, error) {
	path, err := requirePath(path)
	if err != nil {
		return "", err
	}
	s.Logger.Info(ctx, "getURL", "file", path)

	return s.Server.AddFile(path)
}

// Chunk режет файл на куски. chunkSize == nil означает размер по умолчанию;
// явно переданный размер проверяется сервером как есть.
func (s *Files) Chunk(ctx context.Context, path string, chunkSize *int64) ([]models.ChunkInfo, error) {
	path, err := requirePath(path)
	if err != nil {
		return nil, err
	}
	n := s.defaultChunk()
	if chunkSize != nil {
		n = *chunkSize
	}
	s.Logger.Info(ctx, "chunk", "file", path, "chunk_size", n)

	chunks, err := s.Server.GetFileChunks(path, n)
	if err != nil {
		s.Logger.Warn(ctx, "chunk failed", "file", path, "err", err)
		return nil, err
	}

	return chunks, nil
}

// Slice извлекает диапазон файла. size == nil или отрицательный означает «до конца файла».
func (s *Files) Slice(ctx context.Context, path string, offset int64, size *int64) (string, error) {
	path, err := requirePath(path)
	if err != nil {
		return "", err
	}

	n := fileserver.ToEOF
	if size != nil && *size >= 0 {
		n = *size
	}
	s.Logger.Info(ctx, "slice", "file", path, "offset", offset, "size", n)

	out, err := s.Server.GetSlice(path, offset, n)
	if err != nil {
		s.Logger.Warn(ctx, "slice failed", "file", path, "err", err)
		return "", err
	}

	return out, nil
}

// Status собирает адрес, число токенов, расход квоты и объём временного каталога.
func (s *Files) Status(ctx context.Context) (Status, error) {
	if s.Inspector == nil {
		return Status{}, fmt.Errorf("%w: no inspector configured", models.ErrConfig)
	}

	tempBytes, err := fsutil.DirSize(s.Inspector.TempDir())
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", models.ErrFilesystem, err)
	}

	return Status{
		Addr:       s.Inspector.Addr(),
		Registered: s.Inspector.Registered(),
		Usage:      s.Inspector.Usage(),
		TempBytes:  tempBytes,
	}, nil
}

func (s *Files) defaultChunk() int64 {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return accessproto.DefaultChunk
}

func (s *Files) maxRead() int64 {
	if s.MaxRead > 0 {
		return s.MaxRead
	}
	return accessproto.MaxReadSize
}
