package cache

import "testing"

func TestCacheMetricsHitRate(t *testing.T) {
	m := NewCacheMetrics()

	if rate := m.HitRate(); rate != 0 {
		t.Errorf("Expected hit rate 0 with no traffic, got %f", rate)
	}

	m.RecordL1Hit()
	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()

	if rate := m.HitRate(); rate != 75 {
		t.Errorf("Expected hit rate 75%%, got %f", rate)
	}

	stats := m.GetStats()
	if stats.Hits != 3 || stats.L1Hits != 1 || stats.Misses != 1 {
		t.Errorf("Unexpected counters: %+v", stats)
	}
}

func TestCacheMetricsReset(t *testing.T) {
	m := NewCacheMetrics()
	m.RecordSet()
	m.RecordDelete()
	m.RecordError()
	m.RecordL2Error()

	m.Reset()

	stats := m.GetStats()
	if stats.Sets != 0 || stats.Deletes != 0 || stats.Errors != 0 || stats.L2Errors != 0 {
		t.Errorf("Expected counters to be zero after reset, got %+v", stats)
	}
	if stats.StartTime == 0 {
		t.Error("Expected StartTime to be set after reset")
	}
}
