// Package controlhttp реализует управляющий JSON API над сервисом доступа к файлам:
//   - POST /urls — регистрирует файл и возвращает loopback URL.
//   - POST /chunks — режет файл на куски.
//   - POST /slices — извлекает диапазон байт в новый файл.
//   - POST /reads — читает содержимое файла (текст или base64).
//   - GET /health — состояние сервера и расход квоты.
package controlhttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yourname/fileaccess/internal/logging"
	"github.com/yourname/fileaccess/internal/models"
	"github.com/yourname/fileaccess/internal/usecase/fileaccess"
	"github.com/yourname/fileaccess/pkg/accessproto"
	"github.com/yourname/fileaccess/pkg/httperrors"
)

const maxRequestBody = 1 << 20

type Server struct {
	FilesService fileaccess.Service
	Log          logging.Logger
}

// NewServer конструктор
func NewServer(files fileaccess.Service, log logging.Logger) (http.Handler, *Server) {
	if log == nil {
		log = logging.Nop()
	}
	srv := &Server{
		FilesService: files,
		Log:          log,
	}

	rtr := chi.NewRouter()
	rtr.Post(accessproto.PathURLs, srv.postURLs)
	rtr.Post(accessproto.PathChunks, srv.postChunks)
	rtr.Post(accessproto.PathSlices, srv.postSlices)
	rtr.Post(accessproto.PathReads, srv.postReads)
	rtr.Get(accessproto.PathHealth, srv.health)

	return rtr, srv
}

// decode читает JSON-тело запроса, отвечая 400 при ошибке.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httperrors.Write(w, fmt.Errorf("%w: malformed request: %v", models.ErrInvalidArgument, err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
