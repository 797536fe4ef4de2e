package profile

import (
	"encoding/json"
	"sort"
	"time"
)

// RetentionDays is how long activity entries are kept.
const RetentionDays = 90

const dateLayout = "2006-01-02"

// Activity is one use of a feature.
type Activity struct {
	Date            string    `json:"date"`
	Timestamp       time.Time `json:"timestamp"`
	Feature         string    `json:"feature"`
	DurationMinutes int       `json:"duration_minutes"`
}

// UnmarshalJSON tolerates zone-less timestamps.
func (a *Activity) UnmarshalJSON(b []byte) error {
	type alias Activity
	aux := struct {
		*alias
		Timestamp string `json:"timestamp"`
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t, err := parseTime(aux.Timestamp)
	if err != nil {
		return err
	}
	a.Timestamp = t
	if a.Date == "" && !t.IsZero() {
		a.Date = t.Format(dateLayout)
	}
	return nil
}

// LogActivity appends an entry for feature and drops entries older than RetentionDays.
func LogActivity(p *Profile, feature string, minutes int, now time.Time) {
	if minutes <= 0 {
		minutes = 5
	}
	p.ActivityHistory = append(p.ActivityHistory, Activity{
		Date:            now.Format(dateLayout),
		Timestamp:       now,
		Feature:         feature,
		DurationMinutes: minutes,
	})

	cutoff := now.AddDate(0, 0, -RetentionDays).Format(dateLayout)
	kept := p.ActivityHistory[:0]
	for _, a := range p.ActivityHistory {
		if a.Date >= cutoff {
			kept = append(kept, a)
		}
	}
	p.ActivityHistory = kept
}

// DailySummary describes one day of activity.
type DailySummary struct {
	FeaturesAccessed int      `json:"total_features_accessed"`
	TotalMinutes     int      `json:"total_time_minutes"`
	Features         []string `json:"features_list"`
	ActivityCount    int      `json:"activity_count"`
}

// Daily summarizes the activity recorded on now's date.
func Daily(history []Activity, now time.Time) DailySummary {
	today := now.Format(dateLayout)
	s := DailySummary{Features: []string{}}
	seen := map[string]struct{}{}
	for _, a := range history {
		if a.Date != today {
			continue
		}
		s.ActivityCount++
		s.TotalMinutes += a.DurationMinutes
		s.Features = append(s.Features, a.Feature)
		seen[a.Feature] = struct{}{}
	}
	s.FeaturesAccessed = len(seen)
	return s
}

// WeeklyStats describes the last seven days of activity.
type WeeklyStats struct {
	DailyMinutes    map[string]int `json:"daily_breakdown"`
	FeatureUsage    map[string]int `json:"feature_usage"`
	TotalActivities int            `json:"total_activities"`
	UniqueDays      int            `json:"unique_days"`
}

// Weekly summarizes activity since midnight seven days before now.
func Weekly(history []Activity, now time.Time) WeeklyStats {
	y, m, d := now.AddDate(0, 0, -7).Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	s := WeeklyStats{DailyMinutes: map[string]int{}, FeatureUsage: map[string]int{}}
	for _, a := range history {
		if a.Timestamp.Before(since) {
			continue
		}
		s.TotalActivities++
		s.DailyMinutes[a.Date] += a.DurationMinutes
		s.FeatureUsage[a.Feature]++
	}
	s.UniqueDays = len(s.DailyMinutes)
	return s
}

// Streak counts consecutive active days.
type Streak struct {
	Current         int `json:"current_streak"`
	Longest         int `json:"longest_streak"`
	TotalActiveDays int `json:"total_active_days"`
}

// Streaks computes the current streak (ending today or yesterday) and the longest run.
func Streaks(history []Activity, now time.Time) Streak {
	days := activeDays(history)
	if len(days) == 0 {
		return Streak{}
	}

	s := Streak{TotalActiveDays: len(days), Longest: 1}
	check := truncateDay(now)
	for i := len(days) - 1; i >= 0; i-- {
		if check.Sub(days[i]) > 24*time.Hour {
			break
		}
		s.Current++
		check = days[i]
	}

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			s.Longest = max(s.Longest, run)
		} else {
			run = 1
		}
	}
	return s
}

func activeDays(history []Activity) []time.Time {
	seen := map[string]struct{}{}
	var days []time.Time
	for _, a := range history {
		if _, ok := seen[a.Date]; ok {
			continue
		}
		d, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			continue
		}
		seen[a.Date] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func truncateDay(t time.Time) time.Time {
	d, _ := time.Parse(dateLayout, t.Format(dateLayout))
	return d
}
