package inventory

import (
	"sort"
	"time"
)

// PreviewLimit caps how many project names a bucket preview shows.
const PreviewLimit = 5

// Bucket groups projects that share the same calendar date of MonitoredAt.
// The never-monitored projects form a single bucket with a nil Date.
type Bucket struct {
	Date     *time.Time
	Projects []Project
}

// Count returns the number of projects in the bucket.
func (b Bucket) Count() int {
	return len(b.Projects)
}

// Preview returns up to PreviewLimit projects sorted ascending by
// MonitoredAt, plus the number of projects that were cut off.
func (b Bucket) Preview() ([]Project, int) {
	if len(b.Projects) <= PreviewLimit {
		return b.Projects, 0
	}
	return b.Projects[:PreviewLimit], len(b.Projects) - PreviewLimit
}

// GroupByMonitoredDate buckets projects by the calendar date of their
// MonitoredAt timestamp. Buckets are ordered descending by date; the nil
// bucket is not chronologically comparable and always sorts last. Projects
// within a bucket are sorted ascending by MonitoredAt.
func GroupByMonitoredDate(projects []Project) []Bucket {
	dated := make(map[time.Time][]Project)
	var never []Project

	for _, p := range projects {
		if p.MonitoredAt == nil {
			never = append(never, p)
			continue
		}
		day := DateOf(*p.MonitoredAt)
		dated[day] = append(dated[day], p)
	}

	buckets := make([]Bucket, 0, len(dated)+1)
	for day, group := range dated {
		day := day
		sort.Slice(group, func(i, j int) bool {
			return group[i].MonitoredAt.Before(*group[j].MonitoredAt)
		})
		buckets = append(buckets, Bucket{Date: &day, Projects: group})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.After(*buckets[j].Date)
	})

	if len(never) > 0 {
		buckets = append(buckets, Bucket{Projects: never})
	}

	return buckets
}
