package http

import (
	"log/slog"
	"os"

	"github.com/chub-app/chub-backend-go/internal/domain/user"
	"github.com/chub-app/chub-backend-go/internal/handler/http/middleware"
	"github.com/chub-app/chub-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	env string,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	messageHandler MessageHandler,
	scheduleHandler ScheduleHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chub-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/attendance", func(r chi.Router) {
			// Public: streaming platforms post watch sessions, scanned links
			// resolve to a preview before login
			r.Post("/online", attendanceHandler.OnlineCheckIn)
			r.Get("/links/{token}", attendanceHandler.ResolveLink)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

				r.Post("/checkin", attendanceHandler.SelfCheckIn)
				r.Post("/links/{token}/checkin", attendanceHandler.LinkCheckIn)
				r.Get("/me", attendanceHandler.GetMyAttendance)

				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Post("/manual", attendanceHandler.ManualCheckIn)
				r.With(middleware.RequirePermission(user.PermissionAttendanceLinksManage)).
					Post("/links", attendanceHandler.CreateLink)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).
					Get("/", attendanceHandler.List)
				r.With(middleware.RequirePermission(user.PermissionAnalyticsView)).
					Get("/analytics", attendanceHandler.Analytics)
				r.With(middleware.RequirePermission(user.PermissionMembersViewAll)).
					Get("/absent", attendanceHandler.Absent)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/me", messageHandler.GetMyMessages)
			r.Get("/unread-count", messageHandler.UnreadCount)
			r.Put("/{id}/read", messageHandler.MarkAsRead)
			r.Post("/{id}/reply", messageHandler.Reply)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionMessagesSend))
				r.Post("/send", messageHandler.Send)
				r.Post("/follow-up", messageHandler.SendFollowUp)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.RequirePermission(user.PermissionScheduleManage))

			r.Post("/", scheduleHandler.Create)
			r.Get("/", scheduleHandler.List)
			r.Get("/{id}", scheduleHandler.Get)
			r.Put("/{id}", scheduleHandler.Update)
			r.Delete("/{id}", scheduleHandler.Delete)
		})

		r.Route("/events", func(r chi.Router) {
			// The stream authenticates with its own short-lived query token
			r.Get("/stream", eventsHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Post("/token", eventsHandler.GetToken)
			})
		})
	})
	return r
}
