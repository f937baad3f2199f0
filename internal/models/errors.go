package models

import "errors"

// Виды ошибок ядра. Конкретные ошибки оборачивают их через %w,
// поэтому вид восстанавливается errors.Is, а текст остаётся простым сообщением.
var (
	ErrConfig           = errors.New("configuration error")
	ErrFilesystem       = errors.New("filesystem error")
	ErrIO               = errors.New("i/o error")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrResourceExceeded = errors.New("allowed resources exceeded")
	ErrNotFound         = errors.New("not found")
	ErrNotStarted       = errors.New("file server is not started")
	ErrStopped          = errors.New("file server is stopped")
)
