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

	cancelBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/cancel_booking"
	checkinBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/checkin_booking"
	checkoutBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/checkout_booking"
	createBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/create_booking"
	createLocationHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/create_location"
	createRecurringHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/create_recurring_booking"
	getAvailabilityHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_client_bookings"
	getClientPackagesHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_client_packages"
	getInvoiceHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_invoice"
	getLocationBookingsHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_location_bookings"
	getLocationWaitlistHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_location_waitlist"
	getLocationsHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/get_locations"
	modifyBookingHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/modify_booking"
	purchasePackageHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/purchase_package"
	recordPaymentHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/record_payment"
	removeWaitlistEntryHandler "github.com/m04kA/DDC-BookingService/internal/api/handlers/remove_waitlist_entry"
	"github.com/m04kA/DDC-BookingService/internal/api/middleware"
	"github.com/m04kA/DDC-BookingService/internal/config"
	"github.com/m04kA/DDC-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/booking"
	invoiceRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/invoice"
	locationRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/location"
	packagesRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/packages"
	seriesRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/series"
	waitlistRepo "github.com/m04kA/DDC-BookingService/internal/infra/storage/waitlist"
	crmServiceClient "github.com/m04kA/DDC-BookingService/internal/integrations/crmservice"
	billingService "github.com/m04kA/DDC-BookingService/internal/service/billing"
	bookingsService "github.com/m04kA/DDC-BookingService/internal/service/bookings"
	capacityService "github.com/m04kA/DDC-BookingService/internal/service/capacity"
	locationsService "github.com/m04kA/DDC-BookingService/internal/service/locations"
	packagesService "github.com/m04kA/DDC-BookingService/internal/service/packages"
	waitlistService "github.com/m04kA/DDC-BookingService/internal/service/waitlist"
	cancelBookingUC "github.com/m04kA/DDC-BookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/DDC-BookingService/internal/usecase/create_booking"
	createRecurringUC "github.com/m04kA/DDC-BookingService/internal/usecase/create_recurring_booking"
	getAvailabilityUC "github.com/m04kA/DDC-BookingService/internal/usecase/get_availability"
	modifyBookingUC "github.com/m04kA/DDC-BookingService/internal/usecase/modify_booking"
	"github.com/m04kA/DDC-BookingService/pkg/dbmetrics"
	"github.com/m04kA/DDC-BookingService/pkg/logger"
	"github.com/m04kA/DDC-BookingService/pkg/metrics"
	"github.com/m04kA/DDC-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/DDC-BookingService/pkg/txmanager"
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

	log.Info("Starting DDC-BookingService...")
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

	// Инициализируем клиента CRM-сервиса (владельцы и питомцы)
	crmClient := crmServiceClient.NewClient(
		cfg.CRMService.URL,
		time.Duration(cfg.CRMService.Timeout)*time.Second,
		log,
	)
	log.Info("CRM client initialized (url=%s, timeout=%ds)", cfg.CRMService.URL, cfg.CRMService.Timeout)

	// Публикация доменных событий в Kafka (если включена)
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		producer := events.NewProducer(cfg.Events.Brokers, cfg.Events.Topic, log)
		defer producer.Close()
		publisher = producer
		log.Info("Kafka producer initialized (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		locationRepository *locationRepo.Repository
		waitlistRepository *waitlistRepo.Repository
		seriesRepository   *seriesRepo.Repository
		packageRepository  *packagesRepo.Repository
		invoiceRepository  *invoiceRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		locationRepository = locationRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		seriesRepository = seriesRepo.NewRepository(wrappedDB)
		packageRepository = packagesRepo.NewRepository(wrappedDB)
		invoiceRepository = invoiceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		locationRepository = locationRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		seriesRepository = seriesRepo.NewRepository(db)
		packageRepository = packagesRepo.NewRepository(db)
		invoiceRepository = invoiceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	capacitySvc := capacityService.NewService(bookingRepository, log)
	packagesSvc := packagesService.NewService(packageRepository, log)
	billingSvc := billingService.NewService(
		invoiceRepository,
		packagesSvc,
		publisher,
		log,
		cfg.Billing.GSTRatePercent,
		cfg.Billing.DepositPercent,
		cfg.Billing.AllowOverpayment,
	)
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		bookingRepository,
		capacitySvc,
		billingSvc,
		log,
	)
	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		locationRepository,
		waitlistSvc,
		txMgr,
		publisher,
		log,
	)
	locationsSvc := locationsService.NewService(locationRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		locationRepository,
		capacitySvc,
		waitlistSvc,
		billingSvc,
		crmClient,
		txMgr,
		publisher,
		log,
		cfg.Schedule.OpenHour,
		cfg.Schedule.CloseHour,
	)
	createRecurringUseCase := createRecurringUC.NewUseCase(
		bookingRepository,
		seriesRepository,
		locationRepository,
		capacitySvc,
		waitlistSvc,
		billingSvc,
		crmClient,
		txMgr,
		publisher,
		log,
	)
	modifyBookingUseCase := modifyBookingUC.NewUseCase(
		bookingRepository,
		seriesRepository,
		locationRepository,
		capacitySvc,
		waitlistSvc,
		billingSvc,
		txMgr,
		publisher,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		locationRepository,
		waitlistSvc,
		billingSvc,
		txMgr,
		publisher,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		locationRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createRecurring := createRecurringHandler.NewHandler(createRecurringUseCase, log)
	modifyBooking := modifyBookingHandler.NewHandler(modifyBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, billingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingsSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingsSvc, log)
	checkinBooking := checkinBookingHandler.NewHandler(bookingsSvc, log)
	checkoutBooking := checkoutBookingHandler.NewHandler(bookingsSvc, log)
	createLocation := createLocationHandler.NewHandler(locationsSvc, log)
	getLocations := getLocationsHandler.NewHandler(locationsSvc, log)
	getLocationWaitlist := getLocationWaitlistHandler.NewHandler(waitlistSvc, log)
	removeWaitlistEntry := removeWaitlistEntryHandler.NewHandler(waitlistSvc, log)
	purchasePackage := purchasePackageHandler.NewHandler(packagesSvc, log)
	getClientPackages := getClientPackagesHandler.NewHandler(packagesSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(billingSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(billingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Площадки и их доступность
	api.HandleFunc("/locations", getLocations.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}", getLocations.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/locations/{locationId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getClientBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/recurring", createRecurring.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", modifyBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/checkin", checkinBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/checkout", checkoutBooking.Handle).Methods(http.MethodPost)

	// --- Управление площадками (для персонала) ---
	protected.HandleFunc("/locations", createLocation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/waitlist", getLocationWaitlist.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist/{entryId}", removeWaitlistEntry.Handle).Methods(http.MethodDelete)

	// --- Пакеты кредитов ---
	protected.HandleFunc("/packages", purchasePackage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/packages", getClientPackages.Handle).Methods(http.MethodGet)

	// --- Счета и платежи ---
	protected.HandleFunc("/invoices", getInvoice.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{invoiceId}", getInvoice.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/invoices/{invoiceId}/payments", recordPayment.Handle).Methods(http.MethodPost)

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
