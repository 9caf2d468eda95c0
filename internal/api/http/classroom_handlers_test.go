package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/revisia/revisia-backend/internal/questionbank"
)

func newAuthoringServer(t *testing.T) (*httptest.Server, questionbank.Bank) {
	t.Helper()
	bank := questionbank.NewInMemoryBank()
	r := chi.NewRouter()
	r.Use(asUser("teacher1"))
	r.Post("/classrooms", CreateClassroomHandler(bank))
	r.Post("/classrooms/{classroomID}/questions", PutQuestionHandler(bank))
	r.Get("/classrooms/{classroomID}/questions", ListQuestionsHandler(bank))
	r.Delete("/questions/{questionID}", DeleteQuestionHandler(bank))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, bank
}

func TestCreateClassroom(t *testing.T) {
	srv, bank := newAuthoringServer(t)

	var created questionbank.Classroom
	code := doJSON(t, http.MethodPost, srv.URL+"/classrooms",
		questionbank.Classroom{Name: "Physics", TeacherID: "teacher1"}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	if created.ID == "" || created.Name != "Physics" {
		t.Fatalf("created: %+v", created)
	}
	if _, err := bank.GetClassroom(context.Background(), created.ID); err != nil {
		t.Fatalf("not persisted: %v", err)
	}

	if code := doJSON(t, http.MethodPost, srv.URL+"/classrooms", questionbank.Classroom{}, nil); code != http.StatusBadRequest {
		t.Fatalf("missing name: %d", code)
	}
}

func TestQuestionAuthoring(t *testing.T) {
	srv, _ := newAuthoringServer(t)

	var room questionbank.Classroom
	if code := doJSON(t, http.MethodPost, srv.URL+"/classrooms",
		questionbank.Classroom{Name: "Physics"}, &room); code != http.StatusCreated {
		t.Fatalf("create classroom: %d", code)
	}

	// options come back with generated ids
	var created questionbank.Question
	code := doJSON(t, http.MethodPost, srv.URL+"/classrooms/"+room.ID+"/questions",
		questionbank.Question{
			Type:        questionbank.TypeQCM,
			ContentText: "unit of force?",
			Options: []questionbank.Option{
				{TextChoice: "Newton", IsCorrect: true, DisplayOrder: 1},
				{TextChoice: "Joule", DisplayOrder: 2},
			},
		}, &created)
	if code != http.StatusCreated {
		t.Fatalf("put question: %d", code)
	}
	if created.ID == "" || created.ClassroomID != room.ID {
		t.Fatalf("created question: %+v", created)
	}
	for _, o := range created.Options {
		if o.ID == "" {
			t.Fatalf("option without id: %+v", created.Options)
		}
	}

	// an invalid payload is rejected before it touches the bank
	if code := doJSON(t, http.MethodPost, srv.URL+"/classrooms/"+room.ID+"/questions",
		questionbank.Question{Type: questionbank.TypeQCM, ContentText: "?"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid question: %d", code)
	}
	// unknown classroom 404s
	if code := doJSON(t, http.MethodPost, srv.URL+"/classrooms/ghost/questions",
		questionbank.Question{
			Type: questionbank.TypeText, ContentText: "?",
			Text: &questionbank.TextAnswer{AcceptedAnswer: "x"},
		}, nil); code != http.StatusNotFound {
		t.Fatalf("orphan question: %d", code)
	}

	var list []questionbank.Question
	if code := doJSON(t, http.MethodGet, srv.URL+"/classrooms/"+room.ID+"/questions", nil, &list); code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if len(list) != 1 {
		t.Fatalf("list size: %d", len(list))
	}

	if code := doJSON(t, http.MethodDelete, srv.URL+"/questions/"+created.ID, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete: %d", code)
	}
	if code := doJSON(t, http.MethodDelete, srv.URL+"/questions/"+created.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("double delete: %d", code)
	}
}
