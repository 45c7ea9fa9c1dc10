package models

type Stats struct {
	CurrentStreak  int `json:"currentStreak"`
	BestStreak     int `json:"bestStreak"`
	TotalCompleted int `json:"totalCompleted"`
	WeeklyAverage  int `json:"weeklyAverage"`
}
