package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/revisia/revisia-backend/internal/api/http"
	auth "github.com/revisia/revisia-backend/internal/auth/middleware"
	"github.com/revisia/revisia-backend/internal/config"
	"github.com/revisia/revisia-backend/internal/db"
	"github.com/revisia/revisia-backend/internal/grading"
	"github.com/revisia/revisia-backend/internal/leitner"
	"github.com/revisia/revisia-backend/internal/questionbank"
	rbac "github.com/revisia/revisia-backend/internal/rbac"
	storage "github.com/revisia/revisia-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	bank := questionbank.NewSQLBank(dbh)
	store := leitner.NewSQLStore(dbh)
	grader := grading.NewDefaultGrader(grading.WithToleranceRatio(cfg.ToleranceRatio))
	svc := leitner.NewService(store, bank, grader, leitner.WithWeights(cfg.BoxWeights))

	// --- Auth (local JWT; the box runs offline on the classroom LAN) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Teacher: classroom and question authoring
		pr.With(rbac.Require("classroom:create")).
			Post("/classrooms", api.CreateClassroomHandler(bank))
		pr.With(rbac.Require("question:put")).
			Post("/classrooms/{classroomID}/questions", api.PutQuestionHandler(bank))
		pr.With(rbac.Require("question:list")).
			Get("/classrooms/{classroomID}/questions", api.ListQuestionsHandler(bank))
		pr.With(rbac.Require("question:delete")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(bank))

		// Student review flow
		pr.With(rbac.Require("leitner:status")).
			Get("/classrooms/{classroomID}/leitner/status", api.LeitnerStatusHandler(svc))
		pr.With(rbac.Require("leitner:start")).
			Post("/classrooms/{classroomID}/leitner/start", api.LeitnerStartHandler(svc))
		pr.With(rbac.Require("leitner:submit")).
			Post("/leitner/sessions/{sessionID}/submit-answer", api.LeitnerSubmitAnswerHandler(svc))
		pr.With(rbac.Require("leitner:finish")).
			Post("/leitner/sessions/{sessionID}/finish", api.LeitnerFinishHandler(svc))
		pr.With(rbac.Require("leitner:review")).
			Get("/leitner/sessions/{sessionID}/review", api.LeitnerReviewHandler(svc))

		// Users (teacher/admin rosters, own password)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
