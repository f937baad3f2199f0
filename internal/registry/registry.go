// Package registry хранит соответствие случайных токенов путям к файлам.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yourname/fileaccess/internal/models"
)

// TokenFunc выдаёт непредсказуемый уникальный токен.
type TokenFunc func() (string, error)

// UUIDToken генерирует токен как случайный UUID v4 в каноническом виде.
func UUIDToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Registry — потокобезопасная таблица токен → путь.
type Registry struct {
	mu    sync.Mutex
	paths map[string]string
	gen   TokenFunc
}

// New создаёт пустой реестр. Если gen == nil, используется UUIDToken.
func New(gen TokenFunc) *Registry {
	if gen == nil {
		gen = UUIDToken
	}
	return &Registry{
		paths: map[string]string{},
		gen:   gen,
	}
}

// Add регистрирует путь под свежим токеном и возвращает токен.
// Уникальность токена обеспечивает генератор, реестр её не проверяет.
func (r *Registry) Add(path string) (string, error) {
	token, err := r.gen()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[token] = path

	return token, nil
}

// Resolve возвращает путь по токену или models.ErrNotFound.
func (r *Registry) Resolve(token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.paths[token]
	if !ok {
		return "", models.ErrNotFound
	}
	return path, nil
}

// Len возвращает число зарегистрированных токенов.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}
