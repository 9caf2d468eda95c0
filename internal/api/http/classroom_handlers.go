package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/revisia/revisia-backend/internal/questionbank"
)

// POST /classrooms  { "name": "...", "teacher_id": "..." }
func CreateClassroomHandler(bank questionbank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c questionbank.Classroom
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if c.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if err := bank.PutClassroom(r.Context(), c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// POST /classrooms/{classroomID}/questions
func PutQuestionHandler(bank questionbank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classroomID := chi.URLParam(r, "classroomID")
		var q questionbank.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		q.ClassroomID = classroomID
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		assignOptionIDs(&q)
		if err := q.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := bank.PutQuestion(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// GET /classrooms/{classroomID}/questions
func ListQuestionsHandler(bank questionbank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classroomID := chi.URLParam(r, "classroomID")
		qs, err := bank.ListQuestions(r.Context(), classroomID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionHandler(bank questionbank.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		if err := bank.DeleteQuestion(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// assignOptionIDs fills in ids the client omitted so grading and sanitized
// session payloads can reference stable option/pair identifiers.
func assignOptionIDs(q *questionbank.Question) {
	for i := range q.Options {
		if q.Options[i].ID == "" {
			q.Options[i].ID = uuid.NewString()
		}
	}
	for i := range q.Pairs {
		if q.Pairs[i].LeftID == "" {
			q.Pairs[i].LeftID = uuid.NewString()
		}
		if q.Pairs[i].RightID == "" {
			q.Pairs[i].RightID = uuid.NewString()
		}
	}
}
