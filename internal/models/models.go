package models

import "time"

type AttendanceStatus string

const (
	StatusPresent         AttendanceStatus = "present"
	StatusLate            AttendanceStatus = "late"
	StatusAbsentUnexcused AttendanceStatus = "absent_unexcused"
	StatusAbsentExcused   AttendanceStatus = "absent_excused"
)

type EventType string

const (
	EventReward  EventType = "reward"  // мукофот
	EventPenalty EventType = "penalty" // жарима
	EventGrade   EventType = "grade"   // баҳо
)

type Student struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	GroupID   string    `db:"group_id" json:"groupId"`
	GroupName string    `db:"group_name" json:"groupName"`
	JoinDate  string    `db:"join_date" json:"joinDate,omitempty"` // ISO yyyy-MM-dd; пусто — берём CreatedAt
	Active    bool      `db:"is_active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Group struct {
	ID      string `db:"id" json:"id"`
	OwnerID string `db:"owner_id" json:"ownerId"`
	Name    string `db:"name" json:"name"`
	Active  bool   `db:"is_active" json:"active"`
}

// AttendanceRecord — одна запись на пару (ученик, дата), upsert-семантика.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	OwnerID   string           `db:"owner_id" json:"ownerId"`
	StudentID string           `db:"student_id" json:"studentId"`
	Date      string           `db:"date" json:"date"` // ISO yyyy-MM-dd
	Status    AttendanceStatus `db:"status" json:"status"`
	Reason    *string          `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// RewardEvent — append-only журнал баллов (мукофот/жарима/баҳо).
type RewardEvent struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	StudentID string    `db:"student_id" json:"studentId"`
	Date      string    `db:"date" json:"date"` // ISO yyyy-MM-dd
	Type      EventType `db:"type" json:"type"`
	Points    float64   `db:"points" json:"points"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
