package store

import "time"

const (
	PlanFree = "free"
	PlanPaid = "paid"
)

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Do not expose this in JSON responses
	FullName     string `json:"full_name"`
	// Age and the diagnosis flags are nullable: nil means the user has not
	// answered, which is distinct from an explicit false.
	Age              *int      `json:"age"`
	HasPCOS          *bool     `json:"has_pcos"`
	HasEndometriosis *bool     `json:"has_endometriosis"`
	SubscriptionPlan string    `json:"subscription_plan"` // "free" or "paid"
	CreatedAt        time.Time `json:"created_at"`
}

type SymptomLog struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
	Condition string    `json:"condition"`
	Symptoms  string    `json:"symptoms"` // delimiter-separated free text
	PainLevel *int      `json:"pain_level"`
	Mood      string    `json:"mood"`
	CycleDay  *int      `json:"cycle_day"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Recommendation is the stored three-part guidance for one symptom log.
// At most one row is ever written per log.
type Recommendation struct {
	LogID       string    `json:"log_id"`
	Diet        string    `json:"diet"`
	Exercise    string    `json:"exercise"`
	Wellness    string    `json:"wellness"`
	GeneratedAt time.Time `json:"generated_at"`
}
