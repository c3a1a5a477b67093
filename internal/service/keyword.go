package service

import (
	"context"
	"strings"

	"DocShelf/internal/model"
	"DocShelf/internal/repo"
)

// KeywordService управляет метками.
type KeywordService struct {
	keywords repo.KeywordRepository
}

func NewKeywordService(keywords repo.KeywordRepository) *KeywordService {
	return &KeywordService{keywords: keywords}
}

// List возвращает метки по имени с числом файлов.
func (s *KeywordService) List(ctx context.Context) ([]model.KeywordWithCount, error) {
	res, err := s.keywords.ListWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []model.KeywordWithCount{}
	}
	return res, nil
}

func (s *KeywordService) Create(ctx context.Context, name string) (*model.Keyword, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	k := &model.Keyword{Name: name}
	if err := s.keywords.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *KeywordService) Rename(ctx context.Context, id, name string) (*model.Keyword, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	return s.keywords.Rename(ctx, id, name)
}

// Delete удаляет метку без проверки использования, снимая её со всех файлов.
func (s *KeywordService) Delete(ctx context.Context, id string) error {
	return s.keywords.Delete(ctx, id)
}
