package inventory

import (
	"fmt"
	"testing"
	"time"
)

func ts(day string, hour int) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	t = t.Add(time.Duration(hour) * time.Hour)
	return &t
}

func TestGroupByMonitoredDate(t *testing.T) {
	projects := []Project{
		{ID: "p1", Name: "api", MonitoredAt: ts("2024-01-02", 9)},
		{ID: "p2", Name: "web", MonitoredAt: ts("2024-01-02", 15)},
		{ID: "p3", Name: "worker", MonitoredAt: ts("2024-01-01", 3)},
		{ID: "p4", Name: "legacy"},
	}

	buckets := GroupByMonitoredDate(projects)
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}

	// Descending by date, nil bucket last.
	if buckets[0].Date == nil || !buckets[0].Date.Equal(*ts("2024-01-02", 0)) {
		t.Errorf("bucket 0 has wrong date: %v", buckets[0].Date)
	}
	if buckets[1].Date == nil || !buckets[1].Date.Equal(*ts("2024-01-01", 0)) {
		t.Errorf("bucket 1 has wrong date: %v", buckets[1].Date)
	}
	if buckets[2].Date != nil {
		t.Errorf("expected nil bucket last, got %v", buckets[2].Date)
	}

	if buckets[0].Count() != 2 || buckets[2].Count() != 1 {
		t.Errorf("unexpected bucket sizes: %d, %d", buckets[0].Count(), buckets[2].Count())
	}

	// Within a bucket, ascending by MonitoredAt.
	if buckets[0].Projects[0].ID != "p1" || buckets[0].Projects[1].ID != "p2" {
		t.Errorf("bucket 0 not sorted ascending: %+v", buckets[0].Projects)
	}
}

func TestGroupByMonitoredDateNeverMergesNil(t *testing.T) {
	projects := []Project{
		{ID: "p1", MonitoredAt: ts("2024-03-10", 12)},
		{ID: "p2"},
		{ID: "p3"},
	}
	buckets := GroupByMonitoredDate(projects)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[1].Date != nil || buckets[1].Count() != 2 {
		t.Errorf("nil bucket mismatch: %+v", buckets[1])
	}
}

func TestBucketPreviewCap(t *testing.T) {
	var projects []Project
	for i := 0; i < 8; i++ {
		projects = append(projects, Project{
			ID:          fmt.Sprintf("p%d", i),
			Name:        fmt.Sprintf("proj-%d", i),
			MonitoredAt: ts("2024-01-05", i),
		})
	}

	buckets := GroupByMonitoredDate(projects)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}

	preview, more := buckets[0].Preview()
	if len(preview) != PreviewLimit {
		t.Errorf("expected %d preview items, got %d", PreviewLimit, len(preview))
	}
	if more != 3 {
		t.Errorf("expected 3 cut off, got %d", more)
	}
	if preview[0].ID != "p0" {
		t.Errorf("preview should start with the oldest entry, got %s", preview[0].ID)
	}
}

func TestEqualID(t *testing.T) {
	if !EqualID("ABC-123", "abc-123") {
		t.Error("EqualID should ignore case")
	}
	if EqualID("abc-123", "abc-124") {
		t.Error("EqualID matched different ids")
	}
}
