package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        full_name TEXT NOT NULL DEFAULT '',
        age INTEGER,
        has_pcos BOOLEAN,
        has_endometriosis BOOLEAN,
        subscription_plan TEXT NOT NULL DEFAULT 'free' CHECK (subscription_plan IN ('free', 'paid')),
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS symptom_logs (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        date DATE NOT NULL,
        condition TEXT NOT NULL DEFAULT '',
        symptoms TEXT NOT NULL DEFAULT '',
        pain_level INTEGER,
        mood TEXT NOT NULL DEFAULT '',
        cycle_day INTEGER,
        notes TEXT NOT NULL DEFAULT '',
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS recommendations (
        log_id TEXT PRIMARY KEY, -- one recommendation per log
        diet TEXT NOT NULL,
        exercise TEXT NOT NULL,
        wellness TEXT NOT NULL,
        generated_at DATETIME NOT NULL,
        FOREIGN KEY (log_id) REFERENCES symptom_logs (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	row := s.db.QueryRow("SELECT id, email, password_hash, full_name, age, has_pcos, has_endometriosis, subscription_plan, created_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByID(id int64) (*User, error) {
	row := s.db.QueryRow("SELECT id, email, password_hash, full_name, age, has_pcos, has_endometriosis, subscription_plan, created_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var age sql.NullInt64
	var hasPCOS, hasEndo sql.NullBool
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &age, &hasPCOS, &hasEndo, &user.SubscriptionPlan, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	if hasPCOS.Valid {
		user.HasPCOS = &hasPCOS.Bool
	}
	if hasEndo.Valid {
		user.HasEndometriosis = &hasEndo.Bool
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(email, passwordHash, fullName string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (email, password_hash, full_name) VALUES (?, ?, ?)", email, passwordHash, fullName)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetUserByID(id)
}

// UpdateUserProfile writes the full set of editable profile fields.
func (s *SQLiteStore) UpdateUserProfile(user *User) error {
	stmt, err := s.db.Prepare("UPDATE users SET email = ?, full_name = ?, age = ?, has_pcos = ?, has_endometriosis = ?, subscription_plan = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare profile update: %w", err)
	}
	defer stmt.Close()

	var age sql.NullInt64
	if user.Age != nil {
		age = sql.NullInt64{Int64: int64(*user.Age), Valid: true}
	}
	var hasPCOS, hasEndo sql.NullBool
	if user.HasPCOS != nil {
		hasPCOS = sql.NullBool{Bool: *user.HasPCOS, Valid: true}
	}
	if user.HasEndometriosis != nil {
		hasEndo = sql.NullBool{Bool: *user.HasEndometriosis, Valid: true}
	}

	_, err = stmt.Exec(user.Email, user.FullName, age, hasPCOS, hasEndo, user.SubscriptionPlan, user.ID)
	if err != nil {
		return fmt.Errorf("failed to execute profile update: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateUserPassword(userID int64, passwordHash string) error {
	res, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user not found, password not updated")
	}
	return nil
}

func (s *SQLiteStore) UpdateUserSubscription(userID int64, plan string) error {
	res, err := s.db.Exec("UPDATE users SET subscription_plan = ? WHERE id = ?", plan, userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("user not found, subscription not updated")
	}
	return nil
}

// Symptom log methods

func (s *SQLiteStore) CreateSymptomLog(logEntry *SymptomLog) error {
	logEntry.ID = uuid.NewString() // Ensure ID is set
	logEntry.CreatedAt = time.Now()

	stmt, err := s.db.Prepare("INSERT INTO symptom_logs (id, user_id, date, condition, symptoms, pain_level, mood, cycle_day, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare symptom log insert: %w", err)
	}
	defer stmt.Close()

	var pain, cycle sql.NullInt64
	if logEntry.PainLevel != nil {
		pain = sql.NullInt64{Int64: int64(*logEntry.PainLevel), Valid: true}
	}
	if logEntry.CycleDay != nil {
		cycle = sql.NullInt64{Int64: int64(*logEntry.CycleDay), Valid: true}
	}

	_, err = stmt.Exec(logEntry.ID, logEntry.UserID, logEntry.Date, logEntry.Condition, logEntry.Symptoms, pain, logEntry.Mood, cycle, logEntry.Notes, logEntry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute symptom log insert: %w", err)
	}
	return nil
}

const symptomLogColumns = "id, user_id, date, condition, symptoms, pain_level, mood, cycle_day, notes, created_at"

func scanSymptomLog(scan func(dest ...any) error) (*SymptomLog, error) {
	var logEntry SymptomLog
	var pain, cycle sql.NullInt64
	err := scan(&logEntry.ID, &logEntry.UserID, &logEntry.Date, &logEntry.Condition, &logEntry.Symptoms, &pain, &logEntry.Mood, &cycle, &logEntry.Notes, &logEntry.CreatedAt)
	if err != nil {
		return nil, err
	}
	if pain.Valid {
		v := int(pain.Int64)
		logEntry.PainLevel = &v
	}
	if cycle.Valid {
		v := int(cycle.Int64)
		logEntry.CycleDay = &v
	}
	return &logEntry, nil
}

func (s *SQLiteStore) GetSymptomLogByID(logID string, userID int64) (*SymptomLog, error) {
	row := s.db.QueryRow("SELECT "+symptomLogColumns+" FROM symptom_logs WHERE id = ? AND user_id = ?", logID, userID)
	logEntry, err := scanSymptomLog(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get symptom log: %w", err)
	}
	return logEntry, nil
}

// LogFilter narrows and pages ListSymptomLogs.
type LogFilter struct {
	Limit     int
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
	Condition string
	Ascending bool
}

func (s *SQLiteStore) ListSymptomLogs(userID int64, filter LogFilter) ([]SymptomLog, error) {
	query := "SELECT " + symptomLogColumns + " FROM symptom_logs WHERE user_id = ?"
	args := []any{userID}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Condition != "" {
		query += " AND condition LIKE ?"
		args = append(args, "%"+filter.Condition+"%")
	}

	if filter.Ascending {
		query += " ORDER BY date ASC, created_at ASC"
	} else {
		query += " ORDER BY date DESC, created_at DESC"
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query symptom logs: %w", err)
	}
	defer rows.Close()

	var logs []SymptomLog
	for rows.Next() {
		logEntry, err := scanSymptomLog(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan symptom log row: %w", err)
		}
		logs = append(logs, *logEntry)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) CountSymptomLogs(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM symptom_logs WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count symptom logs: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) GetSymptomLogsSince(userID int64, cutoff time.Time) ([]SymptomLog, error) {
	rows, err := s.db.Query("SELECT "+symptomLogColumns+" FROM symptom_logs WHERE user_id = ? AND date >= ? ORDER BY date DESC", userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent symptom logs: %w", err)
	}
	defer rows.Close()

	var logs []SymptomLog
	for rows.Next() {
		logEntry, err := scanSymptomLog(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan symptom log row: %w", err)
		}
		logs = append(logs, *logEntry)
	}
	return logs, rows.Err()
}

// Recommendation methods

func (s *SQLiteStore) CreateRecommendation(rec *Recommendation) error {
	stmt, err := s.db.Prepare("INSERT INTO recommendations (log_id, diet, exercise, wellness, generated_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare recommendation insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(rec.LogID, rec.Diet, rec.Exercise, rec.Wellness, rec.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to execute recommendation insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRecommendationByLogID(logID string) (*Recommendation, error) {
	var rec Recommendation
	err := s.db.QueryRow("SELECT log_id, diet, exercise, wellness, generated_at FROM recommendations WHERE log_id = ?", logID).Scan(&rec.LogID, &rec.Diet, &rec.Exercise, &rec.Wellness, &rec.GeneratedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // No recommendation for this log
		}
		return nil, fmt.Errorf("failed to query recommendation: %w", err)
	}
	return &rec, nil
}
