package filehttp

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yourname/fileaccess/internal/fsutil"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

const streamBufSize = 32 << 10

// serveFile отдаёт файл, найденный по токену из первого сегмента пути.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")
	s.log.Info(ctx, "file request", "path", r.URL.Path, "token", token)

	path, err := s.files.Resolve(token)
	if err != nil {
		s.log.Warn(ctx, "requested token not found", "token", token)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.log.Warn(ctx, "couldn't open file for reading", "path", path, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	defer f.Close()

	size, err := fileLength(f)
	if err != nil {
		s.log.Warn(ctx, "couldn't determine file length", "path", path, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Length", strconv.FormatInt(size, 10))
	h.Set("Server", accessproto.ServerHeader)
	if mts := fsutil.MimeTypes(path); len(mts) > 0 {
		h.Set("Content-Type", mts[0])
	} else {
		// nil отключает автоопределение типа в net/http.
		h["Content-Type"] = nil
	}
	w.WriteHeader(http.StatusOK)

	// Заголовки уже ушли, поэтому обрыв клиента только логируется.
	buf := make([]byte, streamBufSize)
	for {
		rd, readErr := f.Read(buf)
		if rd > 0 {
			n, writeErr := w.Write(buf[:rd])
			if writeErr != nil || n != rd {
				s.log.Warn(ctx, "partial write detected, client left?", "token", token, "wrote", n, "want", rd)
				return
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			s.log.Warn(ctx, "read failed mid-transfer", "path", path, "err", readErr)
			return
		}
	}

	s.log.Debug(ctx, "request processed", "token", token, "bytes", size)
}

// fileLength определяет длину файла переходом в конец и обратно.
func fileLength(f *os.File) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
