package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-erp/internal/api"
	"go-erp/internal/bots"
	"go-erp/internal/bots/bale"
	"go-erp/internal/bots/telegram"
	"go-erp/internal/config"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/auth"
	"go-erp/internal/features/bijak"
	"go-erp/internal/features/chat"
	"go-erp/internal/features/notification"
	"go-erp/internal/features/order"
	"go-erp/internal/features/permit"
	"go-erp/internal/features/push"
	"go-erp/internal/features/remind"
	"go-erp/internal/features/report"
	"go-erp/internal/features/role"
	"go-erp/internal/features/sequence"
	"go-erp/internal/features/settings"
	"go-erp/internal/features/system"
	"go-erp/internal/features/user"
	"go-erp/internal/logger"
	"go-erp/internal/middleware"
	"go-erp/internal/render"
	"go-erp/internal/store"
	"go-erp/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartBots runs the chat poll loops for the lifetime of the app.
func StartBots(lc fx.Lifecycle, runner *bots.Runner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runner.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			runner.Stop()
			return nil
		},
	})
}

// NewMessengers builds one client per supported chat platform. Clients
// without a token still exist so the restart endpoint can name them;
// the runner skips polling them.
func NewMessengers(cfg *config.Config) []bots.Messenger {
	return []bots.Messenger{
		bale.New(cfg.BaleToken),
		telegram.New(cfg.TelegramToken),
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,

			logger.NewLogger,

			NewFiberServer,

			store.NewStore,

			NewMessengers,
			render.NewClient,
			push.NewHub,
			chat.NewSessionStore,

			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			push.NewPushService,
			notification.NewDispatcher,
			approval.NewApprovalService,
			order.NewOrderService,
			permit.NewPermitService,
			bijak.NewBijakService,
			settings.NewSettingsService,
			report.NewReportService,
			chat.NewEngine,
			bots.NewRunner,
			remind.NewReminder,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s role.RoleService) middleware.RoleService { return s },
			func(e *chat.Engine) bots.Handler { return e },

			auth.NewAuthController,
			user.NewUserController,
			push.NewPushController,
			order.NewOrderController,
			permit.NewPermitController,
			bijak.NewBijakController,

			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(role.NewRoleApi),
			AsRoute(push.NewPushApi),
			AsRoute(order.NewOrderApi),
			AsRoute(permit.NewPermitApi),
			AsRoute(bijak.NewBijakApi),
			AsRoute(sequence.NewSequenceApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewBotApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartBots,
			func(st *store.Store, logger *zap.Logger) { st.LogRepairs(logger) },
			func(*remind.Reminder) {},
		),
	)

	app.Run()
}
