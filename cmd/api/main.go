package main

import (
	"fmt"
	"net/http"

	"github.com/sekolahku/attendance-backend-go/internal/config"
	appHTTP "github.com/sekolahku/attendance-backend-go/internal/handler/http"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/database"
	"github.com/sekolahku/attendance-backend-go/internal/pkg/jwt"
	"github.com/sekolahku/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sekolahku/attendance-backend-go/internal/service/attendance"
	leaveService "github.com/sekolahku/attendance-backend-go/internal/service/leave"
	reportService "github.com/sekolahku/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	rosterRepo := postgresql.NewRosterRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, rosterRepo)
	leaveSvc := leaveService.NewLeaveService(db, leaveRequestRepo, attendanceRepo, rosterRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, rosterRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		attendanceHandler,
		leaveHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
