package api

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"avyna.com/backend/internal/auth"
	"avyna.com/backend/internal/core"
	"avyna.com/backend/internal/store"
)

type APIHandler struct {
	dbStore         *store.SQLiteStore
	recommendations *core.RecommendationService
	jwtSecret       string
}

func NewAPIHandler(dbStore *store.SQLiteStore, recommendations *core.RecommendationService, jwtSecret string) *APIHandler {
	return &APIHandler{
		dbStore:         dbStore,
		recommendations: recommendations,
		jwtSecret:       jwtSecret,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.ValidateJWT(h.jwtSecret, tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := h.dbStore.GetUserByID(userID)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %d: %v", userID, err)
			writeError(w, http.StatusInternalServerError, "Failed to process user identity")
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), "currentUser", user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) *store.User {
	return r.Context().Value("currentUser").(*store.User)
}

// Auth handlers

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	existing, err := h.dbStore.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error checking existing user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	if _, err := h.dbStore.CreateUser(req.Email, hashedPassword, strings.TrimSpace(req.FullName)); err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := h.dbStore.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Email, err)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateJWT(h.jwtSecret, user.ID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Profile handlers

func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": currentUser(r)})
}

func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	// Fields are applied only when present in the body; an explicit null
	// clears a nullable field, so raw messages are inspected per key.
	var data map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}

	user := currentUser(r)
	updated := *user

	if raw, ok := data["full_name"]; ok {
		var fullName string
		if err := json.Unmarshal(raw, &fullName); err != nil || len(strings.TrimSpace(fullName)) < 2 {
			writeError(w, http.StatusBadRequest, "Full name must be at least 2 characters long")
			return
		}
		updated.FullName = strings.TrimSpace(fullName)
	}

	if raw, ok := data["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil || email == "" {
			writeError(w, http.StatusBadRequest, "Email cannot be empty")
			return
		}
		existing, err := h.dbStore.GetUserByEmail(email)
		if err != nil {
			log.Printf("Error checking email uniqueness for user %d: %v", user.ID, err)
			writeError(w, http.StatusInternalServerError, "Profile update failed. Please try again.")
			return
		}
		if existing != nil && existing.ID != user.ID {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		updated.Email = email
	}

	if raw, ok := data["age"]; ok {
		var age *int
		if err := json.Unmarshal(raw, &age); err != nil || (age != nil && (*age < 10 || *age > 100)) {
			writeError(w, http.StatusBadRequest, "Age must be a number between 10 and 100")
			return
		}
		updated.Age = age
	}

	if raw, ok := data["has_pcos"]; ok {
		var hasPCOS *bool
		if err := json.Unmarshal(raw, &hasPCOS); err != nil {
			writeError(w, http.StatusBadRequest, "PCOS status must be true, false, or null")
			return
		}
		updated.HasPCOS = hasPCOS
	}

	if raw, ok := data["has_endometriosis"]; ok {
		var hasEndo *bool
		if err := json.Unmarshal(raw, &hasEndo); err != nil {
			writeError(w, http.StatusBadRequest, "Endometriosis status must be true, false, or null")
			return
		}
		updated.HasEndometriosis = hasEndo
	}

	if raw, ok := data["subscription_plan"]; ok {
		var plan string
		if err := json.Unmarshal(raw, &plan); err != nil || (plan != store.PlanFree && plan != store.PlanPaid) {
			writeError(w, http.StatusBadRequest, "Subscription plan must be 'free' or 'paid'")
			return
		}
		updated.SubscriptionPlan = plan
	}

	if err := h.dbStore.UpdateUserProfile(&updated); err != nil {
		log.Printf("Error updating profile for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Profile update failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    &updated,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}

	user := currentUser(r)
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "New password must be at least 6 characters long")
		return
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing new password for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Password change failed. Please try again.")
		return
	}
	if err := h.dbStore.UpdateUserPassword(user.ID, hashedPassword); err != nil {
		log.Printf("Error changing password for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Password change failed. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

type UpdateSubscriptionRequest struct {
	SubscriptionPlan string `json:"subscription_plan"`
}

func (h *APIHandler) UpdateSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.SubscriptionPlan != store.PlanFree && req.SubscriptionPlan != store.PlanPaid {
		writeError(w, http.StatusBadRequest, "Subscription plan must be 'free' or 'paid'")
		return
	}

	user := currentUser(r)
	if err := h.dbStore.UpdateUserSubscription(user.ID, req.SubscriptionPlan); err != nil {
		log.Printf("Error updating subscription for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Subscription update failed. Please try again.")
		return
	}
	user.SubscriptionPlan = req.SubscriptionPlan

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Subscription updated successfully",
		"user":    user,
	})
}

// Symptom log handlers

type CreateSymptomLogRequest struct {
	Condition string `json:"condition"`
	Symptoms  string `json:"symptoms"`
	PainLevel *int   `json:"pain_level"`
	Mood      string `json:"mood"`
	CycleDay  *int   `json:"cycle_day"`
	Notes     string `json:"notes"`
}

func (h *APIHandler) CreateSymptomLogHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSymptomLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.PainLevel != nil && (*req.PainLevel < 0 || *req.PainLevel > 10) {
		writeError(w, http.StatusBadRequest, "Pain level must be between 0 and 10")
		return
	}

	user := currentUser(r)
	logEntry := &store.SymptomLog{
		UserID:    user.ID,
		Date:      time.Now().UTC().Truncate(24 * time.Hour),
		Condition: req.Condition,
		Symptoms:  req.Symptoms,
		PainLevel: req.PainLevel,
		Mood:      req.Mood,
		CycleDay:  req.CycleDay,
		Notes:     req.Notes,
	}
	if err := h.dbStore.CreateSymptomLog(logEntry); err != nil {
		log.Printf("Error creating symptom log for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to create symptom log")
		return
	}

	// Generation runs inline and always yields a complete payload; the
	// message records whether the model or the fallback produced it.
	fromModel, payload := h.recommendations.GenerateForLog(r.Context(), logEntry, user)

	message := "Symptom log created and personalized recommendation generated"
	if !fromModel {
		message = "Symptom log created with personalized fallback recommendation"
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        message,
		"log_id":         logEntry.ID,
		"recommendation": payload,
	})
}

type recommendationResponse struct {
	Diet        string    `json:"diet"`
	Exercise    string    `json:"exercise"`
	Wellness    string    `json:"wellness"`
	Markdown    string    `json:"markdown"`
	GeneratedAt time.Time `json:"generated_at"`
}

type logResponse struct {
	ID             string                  `json:"id"`
	Date           string                  `json:"date"`
	Condition      string                  `json:"condition"`
	Symptoms       string                  `json:"symptoms"`
	PainLevel      *int                    `json:"pain_level"`
	Mood           string                  `json:"mood"`
	CycleDay       *int                    `json:"cycle_day"`
	Notes          string                  `json:"notes"`
	Recommendation *recommendationResponse `json:"recommendation"`
}

func toLogResponse(logEntry store.SymptomLog, rec *store.Recommendation) logResponse {
	resp := logResponse{
		ID:        logEntry.ID,
		Date:      logEntry.Date.Format("2006-01-02"),
		Condition: logEntry.Condition,
		Symptoms:  logEntry.Symptoms,
		PainLevel: logEntry.PainLevel,
		Mood:      logEntry.Mood,
		CycleDay:  logEntry.CycleDay,
		Notes:     logEntry.Notes,
	}
	if rec != nil {
		resp.Recommendation = &recommendationResponse{
			Diet:        rec.Diet,
			Exercise:    rec.Exercise,
			Wellness:    rec.Wellness,
			Markdown:    core.RenderMarkdown(core.Sections{Diet: rec.Diet, Exercise: rec.Exercise, Wellness: rec.Wellness}),
			GeneratedAt: rec.GeneratedAt,
		}
	}
	return resp
}

func queryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}

func (h *APIHandler) ListSymptomLogsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	filter := store.LogFilter{
		Limit:     queryInt(r, "limit", 50, 100),
		Offset:    queryInt(r, "offset", 0, math.MaxInt),
		Condition: r.URL.Query().Get("condition"),
		Ascending: strings.EqualFold(r.URL.Query().Get("sort"), "asc"),
	}

	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
			return
		}
		filter.StartDate = &parsed
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
			return
		}
		filter.EndDate = &parsed
	}

	logs, err := h.dbStore.ListSymptomLogs(user.ID, filter)
	if err != nil {
		log.Printf("Error listing symptom logs for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list symptom logs")
		return
	}

	responses := make([]logResponse, 0, len(logs))
	for _, logEntry := range logs {
		rec, err := h.dbStore.GetRecommendationByLogID(logEntry.ID)
		if err != nil {
			log.Printf("Error loading recommendation for log %s: %v", logEntry.ID, err)
		}
		responses = append(responses, toLogResponse(logEntry, rec))
	}

	total, err := h.dbStore.CountSymptomLogs(user.ID)
	if err != nil {
		log.Printf("Error counting symptom logs for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to list symptom logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs": responses,
		"pagination": map[string]any{
			"total":    total,
			"limit":    filter.Limit,
			"offset":   filter.Offset,
			"has_more": filter.Offset+filter.Limit < total,
		},
	})
}

func (h *APIHandler) GetSymptomLogHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	logID := chi.URLParam(r, "logID")

	logEntry, err := h.dbStore.GetSymptomLogByID(logID, user.ID)
	if err != nil {
		log.Printf("Error getting symptom log %s for user %d: %v", logID, user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get symptom log")
		return
	}
	if logEntry == nil {
		writeError(w, http.StatusNotFound, "Symptom log not found")
		return
	}

	rec, err := h.dbStore.GetRecommendationByLogID(logEntry.ID)
	if err != nil {
		log.Printf("Error loading recommendation for log %s: %v", logEntry.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{"log": toLogResponse(*logEntry, rec)})
}

func (h *APIHandler) RecentSymptomLogsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	days := queryInt(r, "days", 7, 30)

	// Log dates are stored truncated to midnight, so the cutoff must be
	// too or the oldest day of the window falls out of the comparison.
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	logs, err := h.dbStore.GetSymptomLogsSince(user.ID, cutoff)
	if err != nil {
		log.Printf("Error getting recent symptom logs for user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get recent symptom logs")
		return
	}

	// Recent entries carry only a flag for the recommendation, not the
	// recommendation itself.
	type recentLogResponse struct {
		ID                string `json:"id"`
		Date              string `json:"date"`
		Condition         string `json:"condition"`
		Symptoms          string `json:"symptoms"`
		PainLevel         *int   `json:"pain_level"`
		Mood              string `json:"mood"`
		CycleDay          *int   `json:"cycle_day"`
		Notes             string `json:"notes"`
		HasRecommendation bool   `json:"has_recommendation"`
	}

	responses := make([]recentLogResponse, 0, len(logs))
	for _, logEntry := range logs {
		rec, err := h.dbStore.GetRecommendationByLogID(logEntry.ID)
		if err != nil {
			log.Printf("Error loading recommendation for log %s: %v", logEntry.ID, err)
		}
		responses = append(responses, recentLogResponse{
			ID:                logEntry.ID,
			Date:              logEntry.Date.Format("2006-01-02"),
			Condition:         logEntry.Condition,
			Symptoms:          logEntry.Symptoms,
			PainLevel:         logEntry.PainLevel,
			Mood:              logEntry.Mood,
			CycleDay:          logEntry.CycleDay,
			Notes:             logEntry.Notes,
			HasRecommendation: rec != nil,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"logs":        responses,
		"period_days": days,
		"total_logs":  len(responses),
	})
}

func (h *APIHandler) SymptomAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	days := queryInt(r, "days", 30, 90)

	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	logs, err := h.dbStore.GetSymptomLogsSince(user.ID, cutoff)
	if err != nil {
		log.Printf("Error getting symptom logs for analytics, user %d: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	if len(logs) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "No symptom logs found for the specified period",
			"analytics": nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"analytics": core.BuildAnalytics(logs, days)})
}

// Recommendation handlers

func (h *APIHandler) GetRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	logID := chi.URLParam(r, "logID")

	logEntry, err := h.dbStore.GetSymptomLogByID(logID, user.ID)
	if err != nil {
		log.Printf("Error getting symptom log %s for user %d: %v", logID, user.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get recommendation")
		return
	}
	if logEntry == nil {
		writeError(w, http.StatusNotFound, "Symptom log not found or access denied")
		return
	}

	rec, err := h.dbStore.GetRecommendationByLogID(logEntry.ID)
	if err != nil {
		log.Printf("Error loading recommendation for log %s: %v", logEntry.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get recommendation")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "No recommendation found for this symptom log")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recommendation": recommendationResponse{
			Diet:        rec.Diet,
			Exercise:    rec.Exercise,
			Wellness:    rec.Wellness,
			Markdown:    core.RenderMarkdown(core.Sections{Diet: rec.Diet, Exercise: rec.Exercise, Wellness: rec.Wellness}),
			GeneratedAt: rec.GeneratedAt,
		},
	})
}
