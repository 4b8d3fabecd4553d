package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"herdboard/internal/fetchers"
)

// MockService serves dashboard pages from fixture files instead of the backend
type MockService struct {
	mocksDir string
}

// NewMockService creates a new mock service reading <mocksDir>/data/<tab>.html
func NewMockService(mocksDir string) *MockService {
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
	}
}

// Dir returns the directory holding the fixture pages
func (m *MockService) Dir() string {
	return m.mocksDir
}

// LoadPage loads the fixture page of a dashboard tab
func (m *MockService) LoadPage(tab string) (*fetchers.Page, error) {
	if !fetchers.IsTab(tab) {
		return nil, fmt.Errorf("unknown dashboard tab %q", tab)
	}

	filePath := filepath.Join(m.mocksDir, tab+".html")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock page: %w", err)
	}

	return &fetchers.Page{
		Tab:       tab,
		URL:       "file://" + filePath,
		HTML:      content,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// LoadAll loads the fixture pages of every dashboard tab
func (m *MockService) LoadAll() ([]*fetchers.Page, error) {
	pages := make([]*fetchers.Page, 0, len(fetchers.Tabs))
	for _, tab := range fetchers.Tabs {
		page, err := m.LoadPage(tab)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}
