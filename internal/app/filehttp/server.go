package filehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yourname/fileaccess/internal/logging"
)

// Resolver находит путь к файлу по токену.
type Resolver interface {
	Resolve(token string) (string, error)
}

// Server отдаёт файлы, зарегистрированные в Resolver.
type Server struct {
	files Resolver
	log   logging.Logger
}

// New создаёт HTTP-обработчик выдачи файлов.
func New(files Resolver, log logging.Logger) http.Handler {
	srv := &Server{
		files: files,
		log:   log,
	}

	return srv.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/{token}", s.serveFile)
	r.Get("/{token}/*", s.serveFile)

	r.NotFound(emptyStatus(http.StatusNotFound))
	r.MethodNotAllowed(emptyStatus(http.StatusMethodNotAllowed))

	return r
}

func emptyStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}
