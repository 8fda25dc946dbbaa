package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/presensia-hr/attendance-backend-go/internal/config"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/presensia-hr/attendance-backend-go/internal/handler/http"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/database"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/sse"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/presensia-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presensia-hr/attendance-backend-go/internal/service/attendance"
	authService "github.com/presensia-hr/attendance-backend-go/internal/service/auth"
	reportService "github.com/presensia-hr/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	shiftStart, err := timeofday.Parse(cfg.Attendance.ShiftStartTime)
	if err != nil {
		log.Fatal("Invalid ATTENDANCE_SHIFT_START_TIME: ", err)
	}
	attendanceCfg := attendance.Config{
		FullDayMinutes:        cfg.Attendance.FullDayMinutes,
		HalfDayMinutes:        cfg.Attendance.HalfDayMinutes,
		LateThresholdMinutes:  cfg.Attendance.LateThresholdMinutes,
		ShiftStart:            shiftStart,
		BreakDeductionMinutes: cfg.Attendance.BreakDeductionMinutes,
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	punchRepo := postgresql.NewPunchRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	userRepo := postgresql.NewUserRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	attendanceSvc := attendanceService.NewAttendanceService(attendanceCfg, punchRepo, overrideRepo, employeeRepo, hub)
	authSvc := authService.NewAuthService(userRepo, JWTService)
	reportSvc := reportService.NewReportService(attendanceSvc, employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(punchRepo, employeeRepo, hub).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
		JWTService,
		authHandler,
		attendanceHandler,
		reportHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
