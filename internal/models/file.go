package models

// ChunkInfo описывает один кусок файла, материализованный отдельным файлом.
// Порядок сборки задаётся ChunkNumber.
type ChunkInfo struct {
	Path        string `json:"path"`
	ChunkNumber int    `json:"chunk_number"`
	TotalChunks int    `json:"total_chunks"`
}
