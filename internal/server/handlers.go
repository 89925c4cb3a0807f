package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/auth"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/focus"
	"github.com/tempoflow-ai/tempoflow/internal/task"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, HealthResponse{Status: "ok", Version: s.version})
}

// handleListTasks supports ?completed=true|false and ?priority=low|medium|high
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var f task.Filter
	q := r.URL.Query()
	if v := q.Get("completed"); v != "" {
		done, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "completed must be true or false")
			return
		}
		f.Completed = &done
	}
	if v := q.Get("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		f.Priority = p
	}

	tasks, err := s.app.Tasks.List(r.Context(), f)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := task.ParsePriority(req.Priority)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	t, err := s.app.Tasks.Add(r.Context(), req.Title, req.Description, p, req.DueDate)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, t)
}

// resolveTask expands the {id} path value, which may be a unique prefix.
func (s *Server) resolveTask(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := s.app.Tasks.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, r, err)
		return "", false
	}
	return id, true
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveTask(w, r)
	if !ok {
		return
	}
	t, err := s.app.Tasks.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, t)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveTask(w, r)
	if !ok {
		return
	}
	var req EditTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e := task.Edit{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	}
	if req.Priority != nil {
		p, err := task.ParsePriority(*req.Priority)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		e.Priority = &p
	}

	t, err := s.app.Tasks.Edit(r.Context(), id, e)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, t)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveTask(w, r)
	if !ok {
		return
	}
	t, err := s.app.Tasks.Toggle(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveTask(w, r)
	if !ok {
		return
	}
	if err := s.app.Tasks.Delete(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.app.Sessions.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []focus.Session{}
	}
	writeAPIJSON(w, sessions)
}

func (s *Server) handleRecordSession(w http.ResponseWriter, r *http.Request) {
	var req RecordSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date := s.app.Now()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be RFC 3339")
			return
		}
		date = parsed
	}

	sess, err := s.app.Sessions.Record(r.Context(), focus.Session{
		ID:        req.ID,
		Duration:  req.Duration,
		Completed: req.Completed,
		Date:      date,
		TaskID:    req.TaskID,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, sess)
}

// handleProductivity scores the trailing ?days, defaulting to the
// configured timeframe.
func (s *Server) handleProductivity(w http.ResponseWriter, r *http.Request) {
	days := s.Settings().Score.TimeframeDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > config.MaxTimeframeDays {
			writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(config.MaxTimeframeDays))
			return
		}
		days = n
	}

	m, err := s.app.Score(r.Context(), days, app.SurfaceAPI)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, m)
}

// handleChat always answers 200 once the prompt is valid; provider failures
// come back as the apology reply with degraded set.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req app.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.app.Chat(r.Context(), s.Settings(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, res)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, s.Settings().Redacted())
}

// handlePutSettings merges the body over the current settings. An empty or
// still-masked API key keeps the stored one.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	current := s.Settings()
	next := current
	if !decodeJSON(w, r, &next) {
		return
	}
	key := strings.TrimSpace(next.AI.APIKey)
	if key == "" || key == current.Redacted().AI.APIKey {
		next.AI.APIKey = current.AI.APIKey
	}

	next = next.Normalize()
	if err := next.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), next); err != nil {
		writeErr(w, r, err)
		return
	}
	s.ApplySettings(next)
	writeAPIJSON(w, next.Redacted())
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var c auth.Credentials
	if !decodeJSON(w, r, &c) {
		return
	}
	id, err := s.app.Auth.SignIn(r.Context(), c)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, id)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var c auth.Credentials
	if !decodeJSON(w, r, &c) {
		return
	}
	id, err := s.app.Auth.SignUp(r.Context(), c)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusCreated, id)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Auth.SignOut(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.app.Auth.Current(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeAPIJSON(w, sess)
}
