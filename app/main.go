package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kssamy/RealtimeStatusUpdatrs/internal/entities"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/listeners"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/repositories"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/routes"
	"github.com/kssamy/RealtimeStatusUpdatrs/internal/services"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/broker"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/config"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/customvalidator"
	apperrors "github.com/kssamy/RealtimeStatusUpdatrs/pkg/errors"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/eventbus"
	applogger "github.com/kssamy/RealtimeStatusUpdatrs/pkg/logger"
	appmw "github.com/kssamy/RealtimeStatusUpdatrs/pkg/middleware"
	"github.com/kssamy/RealtimeStatusUpdatrs/pkg/utils"
	appwebsocket "github.com/kssamy/RealtimeStatusUpdatrs/pkg/websocket"
	"github.com/kssamy/RealtimeStatusUpdatrs/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(appmw.RequestLogger(logger))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// Ядро: хранилище, шина событий, live-хаб.
	orderRepo := repositories.NewOrderRepository()
	bus := eventbus.New(logger)
	hub := appwebsocket.NewHub(logger)
	go hub.Run()

	orderService := services.NewOrderService(orderRepo, bus, logger)
	dashboardService := services.NewDashboardService(orderRepo, hub, cfg.Simulator.Enabled, logger)

	listeners.NewBroadcastListener(hub, logger).Register(bus)

	// Внешний брокер опционален: без BROKER_URL демо живёт на одном таймере.
	if cfg.Broker.URL != "" {
		conn, err := broker.Connect(cfg.Broker.URL, logger)
		if err != nil {
			logger.Error("Брокер недоступен, ретрансляция отключена", zap.Error(err))
		} else {
			defer conn.Close()

			publisher, err := broker.NewPublisher(conn, cfg.Broker.Exchange, logger)
			if err != nil {
				logger.Error("Не удалось подготовить обменник, ретрансляция отключена", zap.Error(err))
			} else {
				listeners.NewBrokerRelayListener(publisher, logger).Register(bus)
			}

			consumer, err := broker.NewTriggerConsumer(conn, cfg.Broker.TriggerQueue, logger)
			if err != nil {
				logger.Error("Не удалось подготовить очередь триггеров", zap.Error(err))
			} else {
				go func() {
					err := consumer.Consume(context.Background(), func(ctx context.Context, trigger broker.TriggerMessage) error {
						_, err := orderService.TriggerStatusUpdate(ctx, trigger.OrderID, entities.OrderStatus(trigger.NewStatus), trigger.ChangedBy)
						return err
					})
					if err != nil {
						logger.Error("Чтение очереди триггеров прервано", zap.Error(err))
					}
				}()
			}
		}
	}

	demoIDs, err := seeders.SeedDemoOrders(orderRepo)
	if err != nil {
		logger.Fatal("Не удалось наполнить демо-данные", zap.Error(err))
	}
	logger.Info("Демо-заказы готовы", zap.Strings("orderIds", demoIDs))

	if cfg.Simulator.Enabled {
		simulator := services.NewSimulatorService(orderService, orderRepo, cfg.Simulator.Interval, logger)
		go simulator.Run()
		defer simulator.Stop()
	} else {
		logger.Info("Симулятор статусов выключен конфигурацией")
	}

	routes.InitRouter(e, &routes.RouterDeps{
		OrderService:     orderService,
		DashboardService: dashboardService,
		Hub:              hub,
		Logger:           logger,
	})

	logger.Info("🚀 Сервер запущен на :" + cfg.Server.Port)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
