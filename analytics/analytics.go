// Package analytics reduces raw enrollment, attendance and assessment records
// into the summary numbers the dashboards show.
package analytics

import (
	"fmt"
	"math"
	"sort"
)

// Student status bands, first match wins
const (
	StatusAtRisk    = "At Risk"
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusAverage   = "Average"
)

// Progress computes an enrollment's completion percentage from the number of
// completed lessons. When the course has no lessons the current value is kept
// to avoid dividing by zero.
func Progress(completedLessons, totalLessons, current int) int {
	if totalLessons <= 0 {
		return current
	}
	p := int(math.Round(math.Min(100, float64(completedLessons)/float64(totalLessons)*100)))
	return p
}

// AttendancePercent is the share of PRESENT records, 0 when there are none
func AttendancePercent(presentCount, totalRecords int) int {
	if totalRecords <= 0 {
		return 0
	}
	return int(math.Round(float64(presentCount) / float64(totalRecords) * 100))
}

// ScoreEntry is one assessment result contributing to an overall score
type ScoreEntry struct {
	Score      int
	TotalMarks int
}

// OverallScore is the mean percentage across a student's assessment results.
// Results with a non-positive total are skipped; 0 when nothing is eligible.
func OverallScore(results []ScoreEntry) float64 {
	sum := 0.0
	n := 0
	for _, r := range results {
		if r.TotalMarks <= 0 {
			continue
		}
		sum += float64(r.Score) / float64(r.TotalMarks) * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ClassifyStatus maps a student's overall score and attendance percentage to
// a status band. At Risk takes precedence over every other band.
func ClassifyStatus(overallScore, attendance float64) string {
	switch {
	case overallScore < 40 || attendance < 50:
		return StatusAtRisk
	case overallScore >= 80 && attendance >= 80:
		return StatusExcellent
	case overallScore >= 60 && attendance >= 70:
		return StatusGood
	default:
		return StatusAverage
	}
}

// CompletionRate is the institute-wide completed-enrollment share, formatted
// to one decimal place ("30.0"); "0.0" when there are no enrollments
func CompletionRate(completedEnrollments, totalEnrollments int64) string {
	if totalEnrollments <= 0 {
		return "0.0"
	}
	rate := float64(completedEnrollments) / float64(totalEnrollments) * 100
	return fmt.Sprintf("%.1f", math.Round(rate*10)/10)
}

// ProgressEntry is one enrollment's progress within a course
type ProgressEntry struct {
	CourseID    uint
	CourseTitle string
	Progress    int
}

// CoursePerformance is the mean enrollment progress for one course
type CoursePerformance struct {
	CourseID    uint    `json:"course_id"`
	CourseTitle string  `json:"course_title"`
	AvgProgress float64 `json:"avg_progress"`
	Enrollments int     `json:"enrollments"`
}

// CourseRanking groups enrollment progress by course, averages it and returns
// the top courses by average progress, best first.
func CourseRanking(entries []ProgressEntry, top int) []CoursePerformance {
	type bucket struct {
		title string
		sum   int
		n     int
	}
	buckets := make(map[uint]*bucket)
	order := make([]uint, 0)
	for _, e := range entries {
		b, ok := buckets[e.CourseID]
		if !ok {
			b = &bucket{title: e.CourseTitle}
			buckets[e.CourseID] = b
			order = append(order, e.CourseID)
		}
		b.sum += e.Progress
		b.n++
	}
	ranking := make([]CoursePerformance, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		ranking = append(ranking, CoursePerformance{
			CourseID:    id,
			CourseTitle: b.title,
			AvgProgress: float64(b.sum) / float64(b.n),
			Enrollments: b.n,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].AvgProgress > ranking[j].AvgProgress
	})
	if top > 0 && len(ranking) > top {
		ranking = ranking[:top]
	}
	return ranking
}
