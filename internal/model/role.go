package model

// Role: роль вызывающего, передаётся явно в контексте запроса.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// All возвращает все модели, которыми управляет хранилище (для миграций).
func All() []any {
	return []any{&Folder{}, &Keyword{}, &File{}, &Blob{}}
}
