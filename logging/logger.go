// Package logging collects request-level usage statistics for the service.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Environment variable gating full statistics output.
const EnvDevMode = "DEV_MODE"

// Statistics aggregates visitors, analysis traffic and keyword popularity.
type Statistics struct {
	UniqueVisitors     map[string]time.Time `json:"uniqueVisitors"`  // IP -> last visit
	AnalysisRequests   int                  `json:"analysisRequests"`
	ErrorCount         int                  `json:"errorCount"`
	PopularKeywords    map[string]int       `json:"popularKeywords"` // focus keyword -> count
	AverageAnalyzeTime float64              `json:"averageAnalyzeTime"` // milliseconds
	TotalAnalyzeTime   float64              `json:"-"`
	RequestCount       int                  `json:"-"`
	LastPersisted      time.Time            `json:"lastPersisted"`
	mutex              sync.RWMutex
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics singleton.
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors:  make(map[string]time.Time),
			PopularKeywords: make(map[string]int),
			LastPersisted:   time.Now(),
		}

		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a visit from the given IP.
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// normalizeKeyword collapses whitespace and case so keyword popularity does
// not fragment over cosmetic differences.
func normalizeKeyword(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), " ")
}

// TrackAnalysis records one analysis request with its wall-clock duration.
func (s *Statistics) TrackAnalysis(focusKeyword string, analyzeTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++

	if kw := normalizeKeyword(focusKeyword); kw != "" {
		s.PopularKeywords[kw]++
	}

	if hasError {
		s.ErrorCount++
	}

	s.TotalAnalyzeTime += analyzeTime
	s.RequestCount++
	s.AverageAnalyzeTime = s.TotalAnalyzeTime / float64(s.RequestCount)
}

// GetUniqueVisitorsCount returns visitors seen in the last 24 hours.
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetPopularKeywords returns the n most analyzed focus keywords, most
// frequent first.
func (s *Statistics) GetPopularKeywords(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	type kwCount struct {
		keyword string
		count   int
	}
	ranked := make([]kwCount, 0, len(s.PopularKeywords))
	for kw, count := range s.PopularKeywords {
		ranked = append(ranked, kwCount{kw, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].keyword < ranked[j].keyword
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	result := make(map[string]int, len(ranked))
	for _, r := range ranked {
		result[r.keyword] = r.count
	}

	return result
}

// GetErrorRate returns the error percentage over all analysis requests.
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.AnalysisRequests == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(s.AnalysisRequests)) * 100
}

// RequestTotal returns the total number of analysis requests so far.
func (s *Statistics) RequestTotal() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.AnalysisRequests
}

// Save persists the statistics to disk.
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create("statistics.json")
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}

	return nil
}

// Load reads previously saved statistics; a missing file is not an error.
func (s *Statistics) Load() error {
	file, err := os.Open("statistics.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}

	return nil
}

// GetStatistics returns the reportable statistics. Keyword popularity is only
// exposed in development mode.
func (s *Statistics) GetStatistics() map[string]interface{} {
	result := map[string]interface{}{
		"uniqueVisitors24h":  s.GetUniqueVisitorsCount(),
		"totalRequests":      s.RequestTotal(),
		"errorRate":          s.GetErrorRate(),
		"averageAnalyzeTime": s.averageTime(),
	}

	if os.Getenv(EnvDevMode) == "true" {
		result["popularKeywords"] = s.GetPopularKeywords(5)
	}

	return result
}

func (s *Statistics) averageTime() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.AverageAnalyzeTime
}
