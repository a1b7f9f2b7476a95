package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/leavedesk/leave-backend-go/internal/config"
	appHTTP "github.com/leavedesk/leave-backend-go/internal/handler/http"
	"github.com/leavedesk/leave-backend-go/internal/pkg/cron"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
	"github.com/leavedesk/leave-backend-go/internal/pkg/email"
	"github.com/leavedesk/leave-backend-go/internal/pkg/jwt"
	"github.com/leavedesk/leave-backend-go/internal/pkg/storage"
	"github.com/leavedesk/leave-backend-go/internal/repository/postgresql"
	authService "github.com/leavedesk/leave-backend-go/internal/service/auth"
	departmentService "github.com/leavedesk/leave-backend-go/internal/service/department"
	fileService "github.com/leavedesk/leave-backend-go/internal/service/file"
	holidayService "github.com/leavedesk/leave-backend-go/internal/service/holiday"
	leaveService "github.com/leavedesk/leave-backend-go/internal/service/leave"
	reportService "github.com/leavedesk/leave-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	quotaRepo := postgresql.NewQuotaRepository(db)
	auditLogRepo := postgresql.NewAuditLogRepository(db)
	alternateRepo := postgresql.NewAlternateRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	fileSvc := fileService.NewService(fileStorage)

	authSvc := authService.NewService(userRepo, departmentRepo, jwtService)
	departmentSvc := departmentService.NewService(db, departmentRepo, userRepo)
	holidaySvc := holidayService.NewService(holidayRepo)
	requestSvc := leaveService.NewRequestService(
		db,
		leaveRequestRepo,
		quotaRepo,
		auditLogRepo,
		alternateRepo,
		userRepo,
		holidayRepo,
		fileSvc,
		emailService,
	)
	quotaSvc := leaveService.NewQuotaService(quotaRepo)
	reportSvc := reportService.NewService(leaveRequestRepo, holidayRepo)

	scheduler := cron.NewScheduler()
	cron.NewQuotaJobs(quotaSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		appHTTP.NewAuthHandler(authSvc, jwtService),
		appHTTP.NewLeaveHandler(requestSvc, quotaSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
		appHTTP.NewDepartmentHandler(departmentSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
