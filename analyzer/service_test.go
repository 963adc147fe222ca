package analyzer

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Shutdown(); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return s
}

func TestServiceCaching(t *testing.T) {
	s := newTestService(t)
	input := ContentInput{FocusKeyword: "máy lọc không khí", Content: filler(100)}

	if s.IsCached(input) {
		t.Error("Expected input not to be cached before the first analysis")
	}

	first := s.Analyze(input)
	if !s.IsCached(input) {
		t.Error("Expected input to be cached after analysis")
	}

	second := s.Analyze(input)
	if first.TotalScore != second.TotalScore {
		t.Errorf("Expected cached result to match, got %d vs %d", first.TotalScore, second.TotalScore)
	}

	stats := s.GetCacheStats()
	if stats.Entries != 1 {
		t.Errorf("Expected 1 cache entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestServiceCacheKeyCoversAllFields(t *testing.T) {
	base := ContentInput{FocusKeyword: "a", Content: "nội dung"}
	variants := []ContentInput{
		{FocusKeyword: "b", Content: "nội dung"},
		{FocusKeyword: "a", SecondaryKeywords: "x", Content: "nội dung"},
		{FocusKeyword: "a", SEOTitle: "x", Content: "nội dung"},
		{FocusKeyword: "a", Slug: "x", Content: "nội dung"},
		{FocusKeyword: "a", MetaDescription: "x", Content: "nội dung"},
		{FocusKeyword: "a", Content: "nội dung khác"},
		{FocusKeyword: "a", Content: "nội dung", Intent: IntentLocal},
	}
	baseKey := cacheKey(base)
	for i, v := range variants {
		if cacheKey(v) == baseKey {
			t.Errorf("Variant %d must produce a different cache key", i)
		}
	}
}

func TestServiceCacheExpiry(t *testing.T) {
	s := newTestService(t)
	s.SetCacheTTL(50 * time.Millisecond)

	input := ContentInput{FocusKeyword: "x", Content: filler(50)}
	s.Analyze(input)
	if !s.IsCached(input) {
		t.Fatal("Expected fresh entry to be cached")
	}

	time.Sleep(100 * time.Millisecond)
	if s.IsCached(input) {
		t.Error("Expected entry to expire after the TTL")
	}
}

func TestServiceClearCache(t *testing.T) {
	s := newTestService(t)
	input := ContentInput{FocusKeyword: "x", Content: filler(50)}
	s.Analyze(input)

	s.ClearCache()
	if s.IsCached(input) {
		t.Error("Expected cache to be empty after ClearCache")
	}
	if stats := s.GetCacheStats(); stats.Entries != 0 {
		t.Errorf("Expected 0 entries after ClearCache, got %d", stats.Entries)
	}
}

func TestServiceMaxCacheSize(t *testing.T) {
	s := newTestService(t)
	s.SetMaxCacheSize(3)

	for i := 0; i < 10; i++ {
		s.Analyze(ContentInput{FocusKeyword: fmt.Sprintf("từ khóa %d", i), Content: filler(50)})
	}
	s.SetMaxCacheSize(3) // triggers an immediate eviction pass

	if stats := s.GetCacheStats(); stats.Entries > 3 {
		t.Errorf("Expected at most 3 entries after eviction, got %d", stats.Entries)
	}
}

func TestServiceConcurrentAccess(t *testing.T) {
	s := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			input := ContentInput{
				FocusKeyword: fmt.Sprintf("từ khóa %d", n%5),
				Content:      filler(50),
			}
			s.Analyze(input)
			s.IsCached(input)
		}(i)
	}
	wg.Wait()

	if stats := s.GetCacheStats(); stats.Entries != 5 {
		t.Errorf("Expected 5 distinct cache entries, got %d", stats.Entries)
	}
}

func TestServiceSuggestionCounters(t *testing.T) {
	s := newTestService(t)
	s.RecordSuggestion()
	s.RecordSuggestion()
	s.RecordSuggestionFailure()

	current := s.GetStats().GetCurrentStats()
	if current.Suggestions != 2 {
		t.Errorf("Expected 2 suggestions, got %d", current.Suggestions)
	}
	if current.SuggestionFailures != 1 {
		t.Errorf("Expected 1 suggestion failure, got %d", current.SuggestionFailures)
	}
}
