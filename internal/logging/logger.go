// Package logging описывает минимальный интерфейс структурного логирования,
// которым пользуются все компоненты сервиса.
package logging

import "context"

// Logger — структурный логгер с контекстом.
//
// Дополнительные аргументы трактуются как пары ключ–значение:
//
//	log.Info(ctx, "bound", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With возвращает дочерний логгер, всегда добавляющий переданные пары.
	With(args ...any) Logger
}
