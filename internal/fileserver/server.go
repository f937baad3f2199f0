// Package fileserver связывает реестр токенов, учёт квоты и loopback HTTP-выдачу
// в один экземпляр файлового сервера. Экземпляр владеет временным каталогом:
// создаёт его лениво при первом запросе кусков или среза и удаляет целиком при остановке.
package fileserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/yourname/fileaccess/internal/app/filehttp"
	"github.com/yourname/fileaccess/internal/fsutil"
	"github.com/yourname/fileaccess/internal/logging"
	"github.com/yourname/fileaccess/internal/models"
	"github.com/yourname/fileaccess/internal/quota"
	"github.com/yourname/fileaccess/internal/registry"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

type state int

const (
	stateCreated state = iota
	stateServing
	stateStopped
)

// Options задаёт параметры экземпляра сервера.
type Options struct {
	TempDir   string
	MaxFiles  int64
	MaxBytes  int64
	Logger    logging.Logger
	TokenFunc registry.TokenFunc
}

// Server — файловый сервер на эфемерном loopback-порту.
type Server struct {
	tempDir string
	log     logging.Logger
	files   *registry.Registry
	limit   *quota.Limiter

	createTemp func(root, prefix string) (*os.File, error)

	mu    sync.Mutex
	state state
	port  int
	ln    net.Listener
	http  *http.Server

	closeOnce sync.Once
	closeErr  error
}

// New создаёт сервер. Нулевые лимиты заменяются значениями по умолчанию.
func New(opts Options) *Server {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = quota.DefaultMaxFiles
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = quota.DefaultMaxBytes
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Server{
		tempDir: opts.TempDir,
		log:     opts.Logger,
		files:   registry.New(opts.TokenFunc),
		limit:   quota.New(opts.MaxFiles, opts.MaxBytes),

		createTemp: fsutil.CreateTemp,
	}
	s.log.Info(context.Background(), "file server created", "temp_dir", s.tempDir)

	return s
}

// Start занимает эфемерный порт на 127.0.0.1 и начинает обслуживание.
// Возвращает "127.0.0.1:<port>". Повторный запуск и запуск после Close невозможны.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateServing:
		return "", fmt.Errorf("file server already started on port %d", s.port)
	case stateStopped:
		return "", models.ErrStopped
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(accessproto.LoopbackHost, "0"))
	if err != nil {
		return "", fmt.Errorf("bind loopback listener: %w", err)
	}

	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.http = &http.Server{Handler: filehttp.New(s.files, s.log)}
	s.state = stateServing

	srv := s.http
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "file server stopped serving", "err", err)
		}
	}()

	addr := s.addrLocked()
	s.log.Info(context.Background(), "bound", "addr", addr)

	return addr, nil
}

// Addr возвращает адрес, на котором слушает сервер, либо пустую строку до Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateServing {
		return ""
	}
	return s.addrLocked()
}

func (s *Server) addrLocked() string {
	return net.JoinHostPort(accessproto.LoopbackHost, strconv.Itoa(s.port))
}

// AddFile регистрирует путь и возвращает URL вида http://127.0.0.1:<port>/<token>.
func (s *Server) AddFile(path string) (string, error) {
	s.mu.Lock()
	st := s.state
	addr := s.addrLocked()
	s.mu.Unlock()

	switch st {
	case stateCreated:
		return "", models.ErrNotStarted
	case stateStopped:
		return "", models.ErrStopped
	}

	token, err := s.files.Add(path)
	if err != nil {
		return "", err
	}
	s.log.Debug(context.Background(), "file registered", "token", token, "path", path)

	return fmt.Sprintf(accessproto.URLFormat, addr, token), nil
}

// Usage возвращает снимок расхода квоты.
func (s *Server) Usage() quota.Usage {
	return s.limit.Usage()
}

// Registered возвращает число выданных токенов.
func (s *Server) Registered() int {
	return s.files.Len()
}

// TempDir возвращает корень временного каталога сервера.
func (s *Server) TempDir() string {
	return s.tempDir
}

// Close останавливает выдачу и удаляет временный каталог. Безопасен для повторного вызова.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		srv := s.http
		s.state = stateStopped
		s.mu.Unlock()

		var errs []error
		if srv != nil {
			if err := srv.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close listener: %w", err))
			}
		}
		s.log.Info(context.Background(), "stopping file server", "usage", s.limit.Usage().String())

		if s.tempDir != "" {
			if err := os.RemoveAll(s.tempDir); err != nil {
				errs = append(errs, fmt.Errorf("remove temp dir: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})

	return s.closeErr
}

// prepareTempDir проверяет, что корень задан, и создаёт его при необходимости.
func (s *Server) prepareTempDir() error {
	s.mu.Lock()
	stopped := s.state == stateStopped
	s.mu.Unlock()
	if stopped {
		return models.ErrStopped
	}

	if s.tempDir == "" {
		return fmt.Errorf("%w: no temp dir set, internal error", models.ErrConfig)
	}
	if err := fsutil.EnsureDir(s.tempDir); err != nil {
		return fmt.Errorf("%w: unable to create temp dir: %v", models.ErrFilesystem, err)
	}
	return nil
}
