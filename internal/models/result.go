package models

// ScoreResult — проекция на момент чтения, нигде не хранится как источник истины.
// Пересчитывается заново при каждом запросе.
type ScoreResult struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	GroupName string `json:"groupName"`
	JoinDate  string `json:"joinDate"`

	TotalClasses         int     `json:"totalClasses"`
	PresentCount         int     `json:"presentCount"`
	LateCount            int     `json:"lateCount"`
	AbsentCount          int     `json:"absentCount"`
	AttendancePercentage int     `json:"attendancePercentage"`
	AttendancePoints     float64 `json:"attendancePoints"`

	MukofotPoints       float64 `json:"mukofotPoints"`
	JarimaPoints        float64 `json:"jarimaPoints"`
	RewardPenaltyPoints float64 `json:"rewardPenaltyPoints"`

	BahoSum     float64 `json:"-"`
	BahoCount   int     `json:"bahoCount"`
	BahoAverage float64 `json:"bahoAverage"`

	TotalScore   float64 `json:"totalScore"`
	RankPosition int     `json:"rankPosition"`
}

type TopStudent struct {
	StudentID  string  `json:"studentId"`
	Name       string  `json:"name,omitempty"`
	TotalScore float64 `json:"totalScore"`
}

// GroupStatistics — сводка по группе за окно периода.
type GroupStatistics struct {
	TotalLessons         int         `json:"totalLessons"`
	TotalPresent         int         `json:"totalPresent"`
	TotalLate            int         `json:"totalLate"`
	TotalRewards         float64     `json:"totalRewards"`
	TotalPenalties       float64     `json:"totalPenalties"`
	AttendancePercentage int         `json:"attendancePercentage"`
	AverageGrade         float64     `json:"averageGrade"`
	TopStudent           *TopStudent `json:"topStudent,omitempty"`
}
