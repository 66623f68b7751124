package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/davomat-uz/davomat-server/internal/ctxutil"
	"github.com/davomat-uz/davomat-server/internal/daycal"
	"github.com/davomat-uz/davomat-server/internal/export"
	"github.com/davomat-uz/davomat-server/internal/logging"
	"github.com/davomat-uz/davomat-server/internal/metrics"
	"github.com/davomat-uz/davomat-server/internal/models"
	"github.com/davomat-uz/davomat-server/internal/observability"
	"github.com/davomat-uz/davomat-server/internal/score"
	"github.com/davomat-uz/davomat-server/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API — JSON-слой дашборда. Аутентификация вне зоны ответственности:
// владельца подставляет шлюз в заголовке X-Owner-ID.
type API struct {
	Stats *service.Stats
	Log   *logging.Log
}

func (a *API) Mount(mux *http.ServeMux) {
	mux.Handle("GET /api/v1/students/stats", a.wrap("students_stats", a.handleStudentStats))
	mux.Handle("GET /api/v1/groups/{id}/stats", a.wrap("group_stats", a.handleGroupStats))
	mux.Handle("GET /api/v1/groups", a.wrap("groups", a.handleGroups))
	mux.Handle("GET /api/v1/export/students.xlsx", a.wrap("export_students", a.handleExportStudents))
	mux.Handle("POST /api/v1/attendance", a.wrap("mark_attendance", a.handleMarkAttendance))
	mux.Handle("POST /api/v1/rewards", a.wrap("add_reward", a.handleAddReward))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (a *API) wrap(route string, h func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer observability.RecoverPanic()

		owner := r.Header.Get("X-Owner-ID")
		if owner == "" {
			http.Error(w, `{"error":"missing X-Owner-ID"}`, http.StatusBadRequest)
			metrics.HTTPRequests.WithLabelValues(route, "400").Inc()
			return
		}

		ctx := ctxutil.WithOwnerID(r.Context(), owner)
		ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
		ctx = ctxutil.WithOp(ctx, route)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		h(sw, r.WithContext(ctx))

		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		a.Log.For(ctx).Debug("http request",
			zap.String("route", route),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(started)))
	})
}

func (a *API) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSuperseded) {
		a.writeJSON(w, http.StatusConflict, map[string]string{"error": "superseded by a newer request"})
		return
	}
	observability.CaptureErr(err)
	a.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load statistics"})
}

func parseFilter(r *http.Request) score.Filter {
	q := r.URL.Query()
	f := score.Filter{
		Group: q.Get("group"),
		Query: q.Get("q"),
		Quick: score.QuickFilter(q.Get("quick")),
	}
	if v, err := strconv.Atoi(q.Get("pct_min")); err == nil {
		f.PctMin = &v
	}
	if v, err := strconv.Atoi(q.Get("pct_max")); err == nil {
		f.PctMax = &v
	}
	if v, err := strconv.ParseFloat(q.Get("score_min"), 64); err == nil {
		f.ScoreMin = &v
	}
	if v, err := strconv.ParseFloat(q.Get("score_max"), 64); err == nil {
		f.ScoreMax = &v
	}
	return f
}

func parseSort(r *http.Request) score.SortState {
	key := score.SortKey(r.URL.Query().Get("sort"))
	switch r.URL.Query().Get("dir") {
	case "asc":
		return score.SortState{Key: key, Dir: score.Asc}
	case "desc":
		return score.SortState{Key: key, Dir: score.Desc}
	}
	return score.SortState{}
}

func parseRange(r *http.Request) *score.DateRange {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		return nil
	}
	return &score.DateRange{From: from, To: to}
}

func (a *API) handleStudentStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	results, err := a.Stats.StudentStats(ctx, owner, r.URL.Query().Get("group_id"), parseFilter(r), parseSort(r), parseRange(r))
	if err != nil {
		a.writeErr(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (a *API) handleGroupStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	stats, err := a.Stats.GroupStats(ctx, owner, r.PathValue("id"), score.Period(r.URL.Query().Get("period")))
	if err != nil {
		a.writeErr(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	groups, err := a.Stats.Groups(ctx, owner)
	if err != nil {
		a.writeErr(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (a *API) handleExportStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	results, err := a.Stats.StudentStats(ctx, owner, r.URL.Query().Get("group_id"), parseFilter(r), parseSort(r), parseRange(r))
	if err != nil {
		a.writeErr(w, err)
		return
	}
	f, err := export.StudentsWorkbook(results, "")
	if err != nil {
		a.writeErr(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="davomat_`+daycal.Today()+`.xlsx"`)
	if err := f.Write(w); err != nil {
		a.Log.For(ctx).Warn("export write failed", zap.Error(err))
	}
}

type attendanceRequest struct {
	StudentID string  `json:"studentId"`
	Date      any     `json:"date"` // ISO-строка или {seconds,...} от старого клиента
	Status    string  `json:"status"`
	Reason    *string `json:"reason"`
}

func (a *API) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	day, ok := daycal.FromAny(req.Date)
	if !ok || req.StudentID == "" {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "studentId and valid date required"})
		return
	}
	switch models.AttendanceStatus(req.Status) {
	case models.StatusPresent, models.StatusLate, models.StatusAbsentUnexcused, models.StatusAbsentExcused:
	default:
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}

	rec := models.AttendanceRecord{
		OwnerID:   owner,
		StudentID: req.StudentID,
		Date:      day,
		Status:    models.AttendanceStatus(req.Status),
		Reason:    req.Reason,
	}
	if err := a.Stats.MarkAttendance(ctx, rec); err != nil {
		a.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rewardRequest struct {
	StudentID string  `json:"studentId"`
	Date      any     `json:"date"`
	Type      string  `json:"type"`
	Points    float64 `json:"points"`
	Reason    *string `json:"reason"`
}

func (a *API) handleAddReward(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, _ := ctxutil.OwnerID(ctx)

	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	day, ok := daycal.FromAny(req.Date)
	if !ok || req.StudentID == "" {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "studentId and valid date required"})
		return
	}
	switch models.EventType(req.Type) {
	case models.EventReward, models.EventPenalty, models.EventGrade:
	default:
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown event type"})
		return
	}

	ev := models.RewardEvent{
		OwnerID:   owner,
		StudentID: req.StudentID,
		Date:      day,
		Type:      models.EventType(req.Type),
		Points:    req.Points,
		Reason:    req.Reason,
	}
	if err := a.Stats.AddRewardEvent(ctx, ev); err != nil {
		a.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
