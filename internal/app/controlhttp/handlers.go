package controlhttp

import (
	"net/http"

	"github.com/yourname/fileaccess/pkg/accessproto"
	"github.com/yourname/fileaccess/pkg/httperrors"
)

func (s *Server) postURLs(w http.ResponseWriter, r *http.Request) {
	var req accessproto.URLRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := s.FilesService.GetURL(r.Context(), req.File)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, accessproto.URLResponse{URL: u})
}

func (s *Server) postChunks(w http.ResponseWriter, r *http.Request) {
	var req accessproto.ChunkRequest
	if !decode(w, r, &req) {
		return
	}

	chunks, err := s.FilesService.Chunk(r.Context(), req.File, req.ChunkSize)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	resp := accessproto.ChunkResponse{Chunks: make([]accessproto.Chunk, len(chunks))}
	for i, c := range chunks {
		resp.Chunks[i] = accessproto.Chunk{
			Path:        c.Path,
			ChunkNumber: c.ChunkNumber,
			TotalChunks: c.TotalChunks,
		}
	}
	writeJSON(w, resp)
}

func (s *Server) postSlices(w http.ResponseWriter, r *http.Request) {
	var req accessproto.SliceRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := s.FilesService.Slice(r.Context(), req.File, req.Offset, req.Size)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, accessproto.SliceResponse{Path: p})
}

func (s *Server) postReads(w http.ResponseWriter, r *http.Request) {
	var req accessproto.ReadRequest
	if !decode(w, r, &req) {
		return
	}

	read := s.FilesService.Read
	if req.Base64 {
		read = s.FilesService.ReadBase64
	}
	res, err := read(r.Context(), req.File, req.Offset, req.Size)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, accessproto.ReadResponse{Data: res.Data, Base64: res.Base64, Size: res.Size})
}

// health возвращает адрес loopback-сервера, расход квоты и объём временного каталога.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	st, err := s.FilesService.Status(r.Context())
	if err != nil {
		s.Log.Error(r.Context(), "health check failed", "err", err)
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, accessproto.Health{
		OK:        st.Addr != "",
		Addr:      st.Addr,
		Files:     st.Registered,
		FilesUsed: st.Usage.FilesUsed,
		BytesUsed: st.Usage.BytesUsed,
		FileLimit: st.Usage.FileLimit,
		ByteLimit: st.Usage.ByteLimit,
		TempBytes: st.TempBytes,
	})
}
