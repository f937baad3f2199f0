// Package fsutil содержит файловые утилиты, нужные файловому серверу:
// временные файлы в собственном каталоге, MIME-типы по расширению и подсчёт объёма каталога.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir создаёт каталог со всеми родителями.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// CreateTemp создаёт в root новый файл с уникальным именем, начинающимся с prefix.
func CreateTemp(root, prefix string) (*os.File, error) {
	return os.CreateTemp(root, sanitizePrefix(prefix)+"*")
}

// MimeTypes возвращает кандидаты MIME-типа по расширению файла (возможно, пустой список).
func MimeTypes(path string) []string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return nil
	}
	return []string{mt}
}

// DirSize суммирует размеры обычных файлов под root. Отсутствующий каталог даёт 0.
func DirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}

	return total, nil
}

// os.CreateTemp не допускает разделитель пути в шаблоне.
func sanitizePrefix(prefix string) string {
	return strings.NewReplacer("/", "_", string(os.PathSeparator), "_", "*", "_").Replace(prefix)
}
