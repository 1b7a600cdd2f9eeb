package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/gradeworks/gradeworks-lms/internal/api/http"
	auth "github.com/gradeworks/gradeworks-lms/internal/auth/middleware"
	"github.com/gradeworks/gradeworks-lms/internal/config"
	"github.com/gradeworks/gradeworks-lms/internal/db"
	"github.com/gradeworks/gradeworks-lms/internal/gradebook"
	"github.com/gradeworks/gradeworks-lms/internal/rbac"
	"github.com/gradeworks/gradeworks-lms/internal/submission"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := bootstrapAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	subs := submission.NewSQLStore(dbh)
	gb := gradebook.NewSQLStore(dbh)
	authSvc := auth.NewAuthService(cfg.AuthSecret)

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

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.UploadQuizHandler(subs))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(subs))
		pr.With(rbac.Require("quiz:view-full")).
			Get("/quizzes/{quizID}/full", api.GetQuizFullHandler(subs))

		pr.With(rbac.Require("submission:create")).
			Post("/submissions", api.CreateSubmissionHandler(subs))
		pr.With(rbac.Require("submission:save")).
			Post("/submissions/{submissionID}/answers", api.SaveAnswersHandler(subs))
		pr.With(rbac.Require("submission:submit")).
			Post("/submissions/{submissionID}/submit", api.SubmitHandler(subs, gb))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions/{submissionID}", api.GetSubmissionHandler(subs))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions", api.ListSubmissionsHandler(subs))

		pr.With(rbac.Require("gradebook:manage")).
			Put("/gradebook/categories/{categoryID}", api.UpsertCategoryHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Put("/gradebook/items/{itemID}", api.UpsertItemHandler(gb))
		pr.With(rbac.RequireAny("gradebook:view-own", "gradebook:view-all")).
			Get("/gradebook/items", api.ListItemsHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Put("/gradebook/items/{itemID}/grades/{userID}", api.PutBaseGradeHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Post("/gradebook/items/{itemID}/grades/{userID}/adjustments", api.AddAdjustmentHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Patch("/gradebook/items/{itemID}/grades/{userID}/adjustments/{index}", api.SetAdjustmentActiveHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Delete("/gradebook/items/{itemID}/grades/{userID}/adjustments/{index}", api.RemoveAdjustmentHandler(gb))
		pr.With(rbac.Require("gradebook:manage")).
			Put("/gradebook/items/{itemID}/grades/{userID}/override", api.SetOverrideHandler(gb))
		pr.With(rbac.RequireAny("gradebook:view-own", "gradebook:view-all"),
			rbac.RequireOwnerOr("gradebook:view-all", api.OwnsUserParam)).
			Get("/gradebook/items/{itemID}/grades/{userID}", api.GetUserGradeHandler(gb))
		pr.With(rbac.RequireAny("gradebook:view-own", "gradebook:view-all"),
			rbac.RequireOwnerOr("gradebook:view-all", api.OwnsUserParam)).
			Get("/courses/{courseID}/users/{userID}/final-grade", api.FinalGradeHandler(gb))

		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
	})

	log.Printf("gateway listening on %s (mode=%s driver=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

// bootstrapAdmin seeds the admin account from env so a fresh deployment can
// log in. No-op unless ADMIN_PASS_HASH is set.
func bootstrapAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.AdminPassHash == "" {
		return nil
	}
	_, err := dbh.ExecContext(ctx, `INSERT INTO users (id,username,pass_hash,role)
		VALUES ($1,$2,$3,'admin')
		ON CONFLICT (username) DO UPDATE SET pass_hash=EXCLUDED.pass_hash`,
		cfg.AdminUser, cfg.AdminUser, cfg.AdminPassHash)
	return err
}
