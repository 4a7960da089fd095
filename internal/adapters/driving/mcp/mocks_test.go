package mcp

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp     *domain.SearchResponse
	err      error
	gotQuery string
	gotOpts  domain.SearchOptions
	gotN     int
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	stores []driven.Store,
	opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	m.gotQuery = query
	m.gotOpts = opts
	m.gotN = len(stores)
	if m.err != nil {
		return nil, m.err
	}
	if m.resp == nil {
		return &domain.SearchResponse{Results: []domain.ScoredChunk{}}, nil
	}
	return m.resp, nil
}

// mockStore is a named store that returns nothing.
type mockStore struct {
	name string
}

func (m *mockStore) Name() string { return m.name }

func (m *mockStore) Search(_ context.Context, _ string, _ int) ([]domain.StoreHit, error) {
	return nil, nil
}

// mockSettingsService returns fixed settings.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func stores(names ...string) []driven.Store {
	out := make([]driven.Store, len(names))
	for i, n := range names {
		out[i] = &mockStore{name: n}
	}
	return out
}
