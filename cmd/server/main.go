package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkhub/internal/api"
	"parkhub/internal/auth"
	"parkhub/internal/db"
	"parkhub/internal/repository"
	"parkhub/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err := db.Seed(conn); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}

	spotRepo := repository.NewSpotRepository(conn)
	lotRepo := repository.NewLotRepository(conn)
	userRepo := repository.NewUserRepository(conn)
	reservationRepo := repository.NewReservationRepository(conn, spotRepo)
	reportRepo := repository.NewReportRepository(conn)

	var dispatcher service.NotificationDispatcher = service.LogDispatcher{}
	if whatsapp := service.NewWhatsAppDispatcherFromEnv(); whatsapp != nil {
		dispatcher = whatsapp
	} else {
		log.Println("Twilio credentials not set, notifications go to the log")
	}
	var mailSender service.EmailSender
	if sender := service.NewSendGridSenderFromEnv(); sender != nil {
		mailSender = sender
	} else {
		log.Println("SendGrid not configured, monthly reports disabled")
	}

	exportDir := os.Getenv("EXPORT_DIR")
	if exportDir == "" {
		exportDir = "exports"
	}

	lotSvc := service.NewLotService(lotRepo)
	reservationSvc := service.NewReservationService(reservationRepo, dispatcher)
	authSvc := service.NewAuthService(userRepo, auth.Secret())
	userSvc := service.NewUserService(userRepo)
	exportSvc := service.NewExportService(reservationRepo, exportDir)
	jobSvc := service.NewJobService(reportRepo, dispatcher, mailSender)

	authHandler := api.NewAuthHandler(authSvc)
	adminHandler := api.NewAdminHandler(lotSvc, userSvc, reservationSvc)
	userHandler := api.NewUserHandler(lotSvc, reservationSvc, exportSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.Middleware(db.RoleAdmin))
	admin.HandleFunc("/lots", adminHandler.CreateLot).Methods("POST")
	admin.HandleFunc("/lots", adminHandler.ListLots).Methods("GET")
	admin.HandleFunc("/lots/{id}", adminHandler.DeleteLot).Methods("DELETE")
	admin.HandleFunc("/spot-status", adminHandler.SpotStatus).Methods("GET")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users", adminHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", adminHandler.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE")

	// User endpoints (any authenticated role)
	user := r.PathPrefix("/api/user").Subrouter()
	user.Use(auth.Middleware(""))
	user.HandleFunc("/available-lots", userHandler.AvailableLots).Methods("GET")
	user.HandleFunc("/book", userHandler.Book).Methods("POST")
	user.HandleFunc("/release", userHandler.Release).Methods("POST")
	user.HandleFunc("/active-reservation", userHandler.ActiveReservation).Methods("GET")
	user.HandleFunc("/history", userHandler.History).Methods("GET")
	user.HandleFunc("/export-csv", userHandler.ExportCSV).Methods("POST")

	c := cron.New()
	runJob := func(name string, job func() error) func() {
		return func() {
			if err := job(); err != nil {
				log.Printf("Job %s failed: %v", name, err)
			}
		}
	}
	c.AddFunc("0 9 * * *", runJob("daily-reminders", jobSvc.SendDailyReminders))
	c.AddFunc("0 10 * * 0", runJob("weekly-summaries", jobSvc.SendWeeklySummaries))
	c.AddFunc("0 8 1 * *", runJob("monthly-reports", jobSvc.SendMonthlyReports))
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"http://localhost:5173", "http://localhost:5174"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
