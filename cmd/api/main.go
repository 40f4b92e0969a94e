package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/chub-app/chub-backend-go/internal/config"
	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	appHTTP "github.com/chub-app/chub-backend-go/internal/handler/http"
	"github.com/chub-app/chub-backend-go/internal/pkg/cron"
	"github.com/chub-app/chub-backend-go/internal/pkg/database"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	"github.com/chub-app/chub-backend-go/internal/pkg/sse"
	"github.com/chub-app/chub-backend-go/internal/repository/postgresql"
	absenceService "github.com/chub-app/chub-backend-go/internal/service/absence"
	attendanceService "github.com/chub-app/chub-backend-go/internal/service/attendance"
	authService "github.com/chub-app/chub-backend-go/internal/service/auth"
	messageService "github.com/chub-app/chub-backend-go/internal/service/message"
	scheduleService "github.com/chub-app/chub-backend-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	linkRepo := postgresql.NewLinkRepository(db)
	messageRepo := postgresql.NewMessageRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()
	calendar := schedule.NewCalendar(scheduleRepo)

	authSvc := authService.NewAuthService(userRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(recordRepo, linkRepo, userRepo, cfg.Attendance.LinkBaseURL)
	absenceDetector := absenceService.NewDetector(
		userRepo,
		recordRepo,
		calendar,
		cfg.Attendance.AbsenceLookbackDays,
		cfg.Attendance.OnlineWatchThresholdMinutes,
	)
	messageSvc := messageService.NewMessageService(messageRepo, userRepo, hub, logger)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, absenceDetector, cfg.Attendance.AbsenceStreakThreshold)
	messageHandler := appHTTP.NewMessageHandler(messageSvc)
	scheduleHandler := appHTTP.NewScheduleHandler(scheduleSvc)
	eventsHandler := appHTTP.NewEventsHandler(jwtService, hub)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("deactivate_expired_links", time.Hour, func(ctx context.Context) error {
		deactivated, err := linkRepo.DeactivateExpired(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if deactivated > 0 {
			slog.Info("Expired attendance links deactivated", "count", deactivated)
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		cfg.App.Env,
		authHandler,
		attendanceHandler,
		messageHandler,
		scheduleHandler,
		eventsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
