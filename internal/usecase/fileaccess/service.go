// Package fileaccess — прикладной слой над файловым сервером: операции getURL,
// chunk, slice, read и readBase64 с разбором аргументов и значениями по умолчанию.
package fileaccess

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourname/fileaccess/internal/logging"
	"github.com/yourname/fileaccess/internal/models"
	"github.com/yourname/fileaccess/internal/quota"
)

type (
	// FileServer — возможности файлового сервера, которыми пользуется сервис.
	FileServer interface {
		AddFile(path string) (string, error)
		GetFileChunks(path string, chunkSize int64) ([]models.ChunkInfo, error)
		GetSlice(path string, offset, size int64) (string, error)
	}

	// Service объединяет операции доступа к файлам.
	Service interface {
		GetURL(ctx context.Context, path string) (string, error)
		Chunk(ctx context.Context, path string, chunkSize *int64) ([]models.ChunkInfo, error)
		Slice(ctx context.Context, path string, offset int64, size *int64) (string, error)
		Read(ctx context.Context, path string, offset int64, size *int64) (models.ReadResult, error)
		ReadBase64(ctx context.Context, path string, offset int64, size *int64) (models.ReadResult, error)
		Status(ctx context.Context) (Status, error)
	}

	// Inspector отдаёт сведения о состоянии сервера для health-проверок.
	Inspector interface {
		Addr() string
		Registered() int
		Usage() quota.Usage
		TempDir() string
	}
)

// Status — агрегированное состояние сервера.
type Status struct {
	Addr       string
	Registered int
	Usage      quota.Usage
	TempBytes  int64
}

type Deps struct {
	Server    FileServer
	Inspector Inspector
	Logger    logging.Logger
	ChunkSize int64
	MaxRead   int64
}

type Files struct {
	Deps
}

// New конструирует сервис с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	return &Files{Deps: deps}
}

var _ Service = (*Files)(nil)

func requirePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: invalid file path", models.ErrInvalidArgument)
	}
	return path, nil
}
