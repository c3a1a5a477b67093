package repo

import "errors"

// ErrNoToken: токен ещё не сохранён (вход не выполнялся или был logout).
var ErrNoToken = errors.New("not logged in")

// TokenStore хранит cookie сессии DocShelf между запусками CLI.
type TokenStore interface {
	// Save перезаписывает токен. Пустой токен недопустим.
	Save(token string) error
	// Load возвращает ErrNoToken, если сохранённого токена нет.
	Load() (string, error)
	// Clear забывает токен; отсутствие токена ошибкой не считается.
	Clear() error
}
