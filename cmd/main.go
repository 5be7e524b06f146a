package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/electronicdiary/api-school/internal/assignment"
	"github.com/electronicdiary/api-school/internal/audit"
	"github.com/electronicdiary/api-school/internal/auth"
	"github.com/electronicdiary/api-school/internal/config"
	"github.com/electronicdiary/api-school/internal/email"
	"github.com/electronicdiary/api-school/internal/grade"
	"github.com/electronicdiary/api-school/internal/models"
	"github.com/electronicdiary/api-school/internal/student"
	"github.com/electronicdiary/api-school/internal/teacher"
	"github.com/electronicdiary/api-school/internal/utils/db"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to the database")
	}

	if err := database.AutoMigrate(
		&auth.User{},
		&auth.RefreshToken{},
		&teacher.Teacher{},
		&student.Student{},
		&assignment.Assignment{},
		&grade.Grade{},
		&models.TeacherStudent{},
		&models.StudentAssignment{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	store := audit.NewStore(log)
	teacherRepo := teacher.NewRepository(store)
	studentRepo := student.NewRepository(store)
	assignmentRepo := assignment.NewRepository(store)
	gradeRepo := grade.NewRepository(store)

	issuer := auth.NewTokenIssuer(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenMinutes)

	var sender email.Sender
	if cfg.SMTPHost != "" {
		sender = &email.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailFrom,
		}
	} else {
		sender = &email.LogSender{Log: log}
	}

	authService := auth.NewService(auth.ServiceDeps{
		DB:          database,
		Credentials: auth.NewCredentialStore(),
		Tokens:      issuer,
		Ledger:      auth.NewRefreshTokenLedger(),
		Teachers:    teacherRepo,
		Students:    studentRepo,
		Email:       sender,
		BaseURL:     cfg.BaseURL,
		Log:         log,
	})

	authHandler := auth.NewHandler(authService, log)
	teacherHandler := teacher.NewHandler(database, teacherRepo, log)
	studentHandler := student.NewHandler(database, studentRepo, log)
	assignmentHandler := assignment.NewHandler(database, assignmentRepo, log)
	gradeHandler := grade.NewHandler(database, gradeRepo, log)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	// Auth routes, outside the token middleware.
	r.HandleFunc("/api/auth/teacher-register", authHandler.TeacherRegister).Methods("POST")
	r.HandleFunc("/api/auth/student-register", authHandler.StudentRegister).Methods("POST")
	r.HandleFunc("/api/auth/confirm-email", authHandler.ConfirmEmail).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/refresh-token", authHandler.RefreshToken).Methods("POST")
	r.HandleFunc("/api/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/reset-password", authHandler.ResetPassword).Methods("GET")

	// Everything else requires a valid access token.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(issuer))

	api.HandleFunc("/students", studentHandler.GetAll).Methods("GET")
	api.HandleFunc("/students/for-current-teacher", studentHandler.GetForCurrentTeacher).Methods("GET")
	api.HandleFunc("/students/{id:[0-9]+}", studentHandler.GetByID).Methods("GET")
	api.HandleFunc("/students", studentHandler.Create).Methods("POST")
	api.HandleFunc("/students/{id:[0-9]+}", studentHandler.Update).Methods("PUT")
	api.HandleFunc("/students/{id:[0-9]+}", studentHandler.Delete).Methods("DELETE")

	api.HandleFunc("/teachers", teacherHandler.GetAll).Methods("GET")
	api.HandleFunc("/teachers/{id:[0-9]+}", teacherHandler.GetByID).Methods("GET")
	api.HandleFunc("/teachers", teacherHandler.Create).Methods("POST")
	api.HandleFunc("/teachers/{id:[0-9]+}", teacherHandler.Update).Methods("PUT")
	api.HandleFunc("/teachers/{id:[0-9]+}", teacherHandler.Delete).Methods("DELETE")

	api.HandleFunc("/assignments", assignmentHandler.GetAll).Methods("GET")
	api.HandleFunc("/assignments/for-current-teacher", assignmentHandler.GetForCurrentTeacher).Methods("GET")
	api.HandleFunc("/assignments/{id:[0-9]+}", assignmentHandler.GetByID).Methods("GET")
	api.HandleFunc("/assignments", assignmentHandler.Create).Methods("POST")
	api.HandleFunc("/assignments/{id:[0-9]+}", assignmentHandler.Update).Methods("PUT")
	api.HandleFunc("/assignments/{id:[0-9]+}", assignmentHandler.Delete).Methods("DELETE")

	api.HandleFunc("/grades", gradeHandler.GetAll).Methods("GET")
	api.HandleFunc("/grades/for-current-student", gradeHandler.GetForCurrentStudent).Methods("GET")
	api.HandleFunc("/grades/by-assignment/{id:[0-9]+}", gradeHandler.GetByAssignment).Methods("GET")
	api.HandleFunc("/grades/{id:[0-9]+}", gradeHandler.GetByID).Methods("GET")
	api.HandleFunc("/grades", gradeHandler.Create).Methods("POST")
	api.HandleFunc("/grades/{id:[0-9]+}", gradeHandler.Update).Methods("PUT")
	api.HandleFunc("/grades/{id:[0-9]+}", gradeHandler.Delete).Methods("DELETE")

	handler := cors.AllowAll().Handler(r)

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
