package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/domain"
)

// TeacherPasswordHeader carries the shared teacher password on dashboard
// and export requests. Routing-level gating only; the core operations
// assume the caller already holds the teacher capability.
const TeacherPasswordHeader = "X-Teacher-Password"

// Handler exposes the portal over JSON endpoints. Rendering stays
// client-side; this layer is thin glue around the portal service.
type Handler struct {
	service         *app.PortalService
	reports         app.ReportProvider
	teacherPassword string
}

// NewHandler wires the REST surface. reports is usually a cache wrapped
// around the service; pass nil to serve reports uncached.
func NewHandler(service *app.PortalService, reports app.ReportProvider, teacherPassword string) *Handler {
	if reports == nil {
		reports = service
	}
	return &Handler{service: service, reports: reports, teacherPassword: teacherPassword}
}

// Register attaches all routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/quizzes", h.listQuizzes)
	mux.HandleFunc("/submit", h.submit)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/teacher/dashboard", h.requireTeacher(h.dashboard))
	mux.HandleFunc("/teacher/results", h.requireTeacher(h.results))
	mux.HandleFunc("/teacher/export", h.requireTeacher(h.export))
}

type quizListing struct {
	ID      string             `json:"id"`
	DueDate string             `json:"dueDate"`
	Due     string             `json:"due"`
	Verbs   []domain.VerbEntry `json:"verbs"`
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	catalog := h.service.Catalog()
	listings := make([]quizListing, 0, catalog.Len())
	for _, id := range catalog.IDs() {
		quiz, _ := catalog.Quiz(id)
		listings = append(listings, quizListing{
			ID:      id,
			DueDate: quiz.DueDate.Format("January 02, 2006"),
			Due:     quiz.DueDate.Format("Due Monday, January 02, 2006"),
			Verbs:   quiz.Verbs,
		})
	}
	writeJSON(w, http.StatusOK, listings)
}

type submitResponse struct {
	domain.GradeResult
	Student string    `json:"studentName"`
	Week    string    `json:"week"`
	Date    time.Time `json:"date"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission payload")
		return
	}
	result, rec, err := h.service.Submit(r.Context(), sub)
	switch {
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		log.Printf("submit failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not record submission")
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		GradeResult: result,
		Student:     rec.Student,
		Week:        rec.Week,
		Date:        rec.Date,
	})
}

type loginRequest struct {
	StudentID string `json:"studentId"`
	Password  string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}
	student, err := h.service.Login(r.Context(), req.StudentID, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid student credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"studentId": student.ID,
		"name":      student.Name,
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	week := weekParam(r)
	report, err := h.reports.Report(r.Context(), week)
	if err != nil {
		log.Printf("dashboard report failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	week := weekParam(r)
	records, malformed, err := h.service.Results(r.Context(), week)
	if err != nil {
		log.Printf("list results failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not read results")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"week":      week,
		"results":   records,
		"malformed": malformed,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	week := weekParam(r)
	data, name, err := h.service.ExportCSV(r.Context(), week)
	if errors.Is(err, domain.ErrNoResults) {
		writeError(w, http.StatusNotFound, "no quiz results found yet")
		return
	}
	if err != nil {
		log.Printf("export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not export results")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func (h *Handler) requireTeacher(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.teacherAllowed(r.Header.Get(TeacherPasswordHeader)) {
			writeError(w, http.StatusUnauthorized, "teacher access required")
			return
		}
		next(w, r)
	}
}

func (h *Handler) teacherAllowed(password string) bool {
	if h.teacherPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.teacherPassword)) == 1
}

func weekParam(r *http.Request) string {
	week := r.URL.Query().Get("week")
	if week == "" {
		week = domain.FilterAll
	}
	return week
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
