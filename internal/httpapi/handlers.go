package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"taskmaster/internal/service"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// TaskHandler translates HTTP requests into store operations.
// Input is validated here; the store itself accepts whatever it is given.
type TaskHandler struct {
	svc service.Service
	now func() time.Time
	log *logrus.Logger
}

// taskRequest is the body of create and edit requests.
// Absent fields stay nil, which edit treats as "unchanged".
type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

type filterResponse struct {
	Filter service.Filter `json:"filter"`
	Label  string         `json:"label"`
}

type viewResponse struct {
	Filter service.Filter `json:"filter"`
	Search string         `json:"search"`
	Tasks  []service.Task `json:"tasks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListTasks returns the derived view for the active filter and ?search=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	state := h.svc.State()
	h.writeJSON(w, http.StatusOK, viewResponse{
		Filter: state.Filter,
		Search: search,
		Tasks:  service.FilteredTasks(state, search, h.now()),
	})
}

// GetState returns every task and the active filter.
func (h *TaskHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.svc.State()
	if state.Tasks == nil {
		state.Tasks = []service.Task{}
	}
	h.writeJSON(w, http.StatusOK, state)
}

// GetTask returns one task by id.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, ok := h.svc.State().Find(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("task not found: %s", id))
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

// CreateTask validates the body and appends a new task.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	fields, err := req.fields()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	task := h.svc.CreateTask(fields)
	h.log.WithField("task_id", task.ID).Info("task created via api")
	h.writeJSON(w, http.StatusCreated, task)
}

// EditTask applies the fields present in the body to the task.
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req taskRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	patch, err := req.patch()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.svc.EditTask(id, patch) {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("task not found: %s", id))
		return
	}
	h.writeTask(w, id)
}

// DeleteTask removes the task.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.svc.DeleteTask(id) {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("task not found: %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask flips the completion flag.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.svc.ToggleTask(id) {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("task not found: %s", id))
		return
	}
	h.writeTask(w, id)
}

// GetFilter returns the active filter.
func (h *TaskHandler) GetFilter(w http.ResponseWriter, r *http.Request) {
	f := h.svc.State().Filter
	h.writeJSON(w, http.StatusOK, filterResponse{Filter: f, Label: f.Label()})
}

// SetFilter replaces the active filter.
func (h *TaskHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	f, err := service.ParseFilter(req.Filter)
	if err == nil {
		err = h.svc.SetFilter(f)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.writeJSON(w, http.StatusOK, filterResponse{Filter: f, Label: f.Label()})
}

// writeTask writes the current state of the task. The task can vanish
// between the mutation and this read only if another request deleted it.
func (h *TaskHandler) writeTask(w http.ResponseWriter, id string) {
	task, ok := h.svc.State().Find(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("task not found: %s", id))
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (req taskRequest) fields() (service.Fields, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return service.Fields{}, errors.New("title required")
	}
	if req.DueDate == nil || strings.TrimSpace(*req.DueDate) == "" {
		return service.Fields{}, errors.New("due date required")
	}
	due, err := service.ParseDate(*req.DueDate)
	if err != nil {
		return service.Fields{}, err
	}

	f := service.Fields{Title: *req.Title, DueDate: due}
	if req.Description != nil {
		f.Description = *req.Description
	}
	return f, nil
}

func (req taskRequest) patch() (service.Patch, error) {
	var p service.Patch
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return p, errors.New("title required")
		}
		p.Title = req.Title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.DueDate != nil {
		due, err := service.ParseDate(*req.DueDate)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if p.IsEmpty() {
		return p, errors.New("nothing to edit")
	}
	return p, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// NotFound answers requests that match no route.
func (h *TaskHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, fmt.Errorf("not found: %s", r.URL.Path))
}

// MethodNotAllowed answers requests whose path matches but method does not.
func (h *TaskHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed: %s", r.Method))
}

func (h *TaskHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).WithField("status", status).Debug("failed to write response")
	}
}

func (h *TaskHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
