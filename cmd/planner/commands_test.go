package main

import (
	"context"
	"testing"
	"time"

	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcherUsesPlannerConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("APP_PLANNER_MIN_QUERY_LENGTH", "4")
	t.Setenv("APP_PLANNER_SEARCH_DEBOUNCE", "5ms")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Planner.MinQueryLength)
	require.Equal(t, 5*time.Millisecond, cfg.Planner.SearchDebounce)

	var queries []string
	searcher := newSearcher(func(ctx context.Context, query string) ([]common.Recipe, error) {
		queries = append(queries, query)
		return []common.Recipe{{Name: "Sambar"}}, nil
	}, &cfg.Planner)
	assert.Equal(t, 4, searcher.MinLength())

	results, err := searcher.Query(context.Background(), "dal")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, queries)

	results, err = searcher.Query(context.Background(), "sambar")
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"sambar"}, queries)
}
