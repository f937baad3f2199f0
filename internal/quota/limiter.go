// Package quota учитывает накопленный расход временных файлов и байтов
// относительно фиксированных потолков. Счётчики только растут: квота описывает
// суммарную нагрузку за всё время жизни процесса, а не текущую занятость диска.
package quota

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
)

// Лимиты по умолчанию: 1024 файла и 512 MiB.
const (
	DefaultMaxFiles int64 = 1024
	DefaultMaxBytes int64 = 512 << 20
)

// Usage — снимок счётчиков лимитера.
type Usage struct {
	FilesUsed int64 `json:"files_used"`
	BytesUsed int64 `json:"bytes_used"`
	FileLimit int64 `json:"file_limit"`
	ByteLimit int64 `json:"byte_limit"`
}

func (u Usage) String() string {
	return fmt.Sprintf("files %d/%d, bytes %s/%s",
		u.FilesUsed, u.FileLimit,
		humanize.IBytes(uint64(u.BytesUsed)), humanize.IBytes(uint64(u.ByteLimit)))
}

// Limiter — потокобезопасный учёт расхода.
type Limiter struct {
	mu        sync.Mutex
	fileLimit int64
	byteLimit int64
	filesUsed int64
	bytesUsed int64
}

// New создаёт лимитер с заданными потолками.
func New(fileLimit, byteLimit int64) *Limiter {
	return &Limiter{
		fileLimit: fileLimit,
		byteLimit: byteLimit,
	}
}

// WouldExceed сообщает, превысит ли дополнительный расход хотя бы один из лимитов.
func (l *Limiter) WouldExceed(files, bytes int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wouldExceedLocked(files, bytes)
}

// NoteUsage безусловно добавляет расход. Проверку вызывающий делает сам через WouldExceed.
func (l *Limiter) NoteUsage(files, bytes int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filesUsed += files
	l.bytesUsed += bytes
}

// Reserve атомарно проверяет и списывает расход. Возвращает false, ничего не списав,
// если лимит был бы превышен.
func (l *Limiter) Reserve(files, bytes int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.wouldExceedLocked(files, bytes) {
		return false
	}
	l.filesUsed += files
	l.bytesUsed += bytes
	return true
}

// Usage возвращает текущий снимок счётчиков.
func (l *Limiter) Usage() Usage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Usage{
		FilesUsed: l.filesUsed,
		BytesUsed: l.bytesUsed,
		FileLimit: l.fileLimit,
		ByteLimit: l.byteLimit,
	}
}

func (l *Limiter) wouldExceedLocked(files, bytes int64) bool {
	if l.filesUsed+files > l.fileLimit {
		return true
	}
	return l.bytesUsed+bytes > l.byteLimit
}
