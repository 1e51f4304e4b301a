package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/cancel_booking"
	cancelSlotHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/cancel_slot"
	completeBookingHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/create_booking"
	createSlotHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/create_slot"
	drainNotificationsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/drain_notifications"
	getBookingHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_booking"
	getProviderSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_provider_slots"
	getUserBookingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_user_bookings"
	reconcileSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reconcile_slots"
	resetNotificationsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reset_notifications"
	searchSlotsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/search_slots"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/infra/cache"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	notificationRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/notification"
	slotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/slot"
	mailSenderClient "github.com/m04kA/SMC-SlotService/internal/integrations/mailsender"
	providerServiceClient "github.com/m04kA/SMC-SlotService/internal/integrations/providerservice"
	bookingsService "github.com/m04kA/SMC-SlotService/internal/service/bookings"
	slotsService "github.com/m04kA/SMC-SlotService/internal/service/slots"
	bookSlotUC "github.com/m04kA/SMC-SlotService/internal/usecase/book_slot"
	discoverSlotsUC "github.com/m04kA/SMC-SlotService/internal/usecase/discover_slots"
	drainNotificationsUC "github.com/m04kA/SMC-SlotService/internal/usecase/drain_notifications"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
	"github.com/m04kA/SMC-SlotService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SlotService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SlotService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	providerClient := providerServiceClient.NewClient(
		cfg.ProviderService.URL,
		time.Duration(cfg.ProviderService.Timeout)*time.Second,
		log,
	)
	mailClient := mailSenderClient.NewClient(
		cfg.MailSender.URL,
		time.Duration(cfg.MailSender.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderService=%s timeout=%ds, MailSender=%s timeout=%ds)",
		cfg.ProviderService.URL, cfg.ProviderService.Timeout, cfg.MailSender.URL, cfg.MailSender.Timeout)

	// Инициализируем кэш профилей провайдеров (если включен)
	var providerCache discoverSlotsUC.ProviderCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer redisClient.Close()

		providerCache = cache.NewProviderCache(redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		log.Info("Provider cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository         *slotRepo.Repository
		bookingRepository      *bookingRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	// Интерфейс для transaction manager (usecases и сервисы)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		notificationRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		notificationRepository,
		txMgr,
		log,
	)

	discoverSlotsUseCase := discoverSlotsUC.NewUseCase(
		slotRepository,
		providerClient,
		providerCache,
		nil, // гео-фильтр подключается отдельной реализацией
		uint64(cfg.Discovery.PageSize),
		log,
	)

	var drainMetrics drainNotificationsUC.MetricsCollector
	if cfg.Metrics.Enabled {
		drainMetrics = metricsCollector
	}
	drainNotificationsUseCase := drainNotificationsUC.NewUseCase(
		notificationRepository,
		mailClient,
		txMgr,
		drainMetrics,
		uint64(cfg.Notifications.DrainBatchSize),
		time.Duration(cfg.Notifications.TaskTimeoutSeconds)*time.Second,
		log,
	)

	// Инициализируем handlers
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	cancelSlot := cancelSlotHandler.NewHandler(slotSvc, log)
	getProviderSlots := getProviderSlotsHandler.NewHandler(slotSvc, log)
	searchSlots := searchSlotsHandler.NewHandler(discoverSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(bookSlotUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	drainNotifications := drainNotificationsHandler.NewHandler(drainNotificationsUseCase, log)
	resetNotifications := resetNotificationsHandler.NewHandler(notificationRepository, log)
	reconcileSlots := reconcileSlotsHandler.NewHandler(
		slotSvc,
		time.Duration(cfg.Notifications.OrphanGraceMinutes)*time.Minute,
		log,
	)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Поиск открытых слотов
	api.HandleFunc("/slots", searchSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты (для провайдеров) ---
	// Публикация слота
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)

	// Отмена открытого слота
	protected.HandleFunc("/slots/{slotId}", cancelSlot.Handle).Methods(http.MethodDelete)

	// Расписание провайдера, включая занятые слоты
	protected.HandleFunc("/providers/{providerId}/slots", getProviderSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Бронирование слота
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение бронирования провайдером
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// Завершение бронирования провайдером
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (вызываются планировщиком, не публикуются наружу)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()

	// Проход по очереди уведомлений
	internal.HandleFunc("/notifications/drain", drainNotifications.Handle).Methods(http.MethodPost)

	// Операторский перезапуск failed задач
	internal.HandleFunc("/notifications/reset", resetNotifications.Handle).Methods(http.MethodPost)

	// Возврат осиротевших слотов в продажу
	internal.HandleFunc("/slots/reconcile", reconcileSlots.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
