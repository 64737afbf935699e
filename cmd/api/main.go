package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NunoCastro30/TechFlow/internal/config"
	identityentity "github.com/NunoCastro30/TechFlow/internal/identity/entity"
	identityhandler "github.com/NunoCastro30/TechFlow/internal/identity/handler"
	identityrepo "github.com/NunoCastro30/TechFlow/internal/identity/repository"
	identitysvc "github.com/NunoCastro30/TechFlow/internal/identity/service"
	maintenanceentity "github.com/NunoCastro30/TechFlow/internal/maintenance/entity"
	maintenancehandler "github.com/NunoCastro30/TechFlow/internal/maintenance/handler"
	maintenancerepo "github.com/NunoCastro30/TechFlow/internal/maintenance/repository"
	maintenancesvc "github.com/NunoCastro30/TechFlow/internal/maintenance/service"
	"github.com/NunoCastro30/TechFlow/internal/middleware"
	ordersentity "github.com/NunoCastro30/TechFlow/internal/orders/entity"
	ordershandler "github.com/NunoCastro30/TechFlow/internal/orders/handler"
	ordersrepo "github.com/NunoCastro30/TechFlow/internal/orders/repository"
	orderssvc "github.com/NunoCastro30/TechFlow/internal/orders/service"
	procurement "github.com/NunoCastro30/TechFlow/internal/procurement/entity"
	procurementhandler "github.com/NunoCastro30/TechFlow/internal/procurement/handler"
	procurementrepo "github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	procurementsvc "github.com/NunoCastro30/TechFlow/internal/procurement/service"
	productionentity "github.com/NunoCastro30/TechFlow/internal/production/entity"
	productionhandler "github.com/NunoCastro30/TechFlow/internal/production/handler"
	productionrepo "github.com/NunoCastro30/TechFlow/internal/production/repository"
	productionsvc "github.com/NunoCastro30/TechFlow/internal/production/service"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting techflow service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&identityentity.User{},
		&procurement.RawMaterial{},
		&procurement.Supplier{},
		&procurement.PurchaseRequest{},
		&procurement.PurchaseRequestItem{},
		&procurement.QuotationRequest{},
		&procurement.Budget{},
		&procurement.BudgetItem{},
		&procurement.OrderNote{},
		&procurement.OrderNoteItem{},
		&ordersentity.Client{},
		&ordersentity.Product{},
		&ordersentity.ProductMaterial{},
		&ordersentity.ClientOrder{},
		&ordersentity.ClientOrderItem{},
		&productionentity.ProductionOrder{},
		&productionentity.ProductionRecord{},
		&maintenanceentity.Machine{},
		&maintenanceentity.MaintenanceRequest{},
		&maintenanceentity.MaintenanceRecord{},
		&maintenanceentity.MaintenanceAttachment{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	minioClient := initMinIO(cfg.MinIO, zapLogger)

	notifier := initNotifier(cfg.Notify, zapLogger)

	// Identity
	userRepo := identityrepo.NewUserRepository(db)
	userSvc := identitysvc.NewUserService(userRepo)
	authSvc := identitysvc.NewAuthService(userRepo, rdb, cfg.JWT)
	userHandler := identityhandler.NewUserHandler(userSvc, authSvc)

	// Procurement + stock
	procRepos := procurementrepo.NewRepositories(db)
	stockSvc := procurementsvc.NewStockService(procRepos.RawMaterial, notifier, zapLogger, cfg.Stock.CriticalThreshold, cfg.Notify.StockRecipient)
	procSvc := procurementsvc.NewProcurementService(db, procRepos, notifier, zapLogger)
	materialSvc := procurementsvc.NewMaterialService(procRepos.RawMaterial, stockSvc)
	supplierSvc := procurementsvc.NewSupplierService(procRepos.Supplier)
	procHandler := procurementhandler.NewProcurementHandler(procSvc)
	materialHandler := procurementhandler.NewMaterialHandler(materialSvc)
	supplierHandler := procurementhandler.NewSupplierHandler(supplierSvc, procSvc)

	// Orders
	orderRepos := ordersrepo.NewRepositories(db)
	feasibilitySvc := orderssvc.NewFeasibilityService(orderRepos.ClientOrder, notifier, zapLogger, cfg.Notify.ProductionRecipient)
	orderSvc := orderssvc.NewOrderService(orderRepos, feasibilitySvc, zapLogger)
	clientSvc := orderssvc.NewClientService(orderRepos.Client)
	productSvc := orderssvc.NewProductService(orderRepos.Product)
	orderHandler := ordershandler.NewOrderHandler(orderSvc, clientSvc, productSvc)

	// Production
	prodOrderRepo := productionrepo.NewProductionOrderRepository(db)
	prodSvc := productionsvc.NewProductionService(db, prodOrderRepo, orderRepos.Product, stockSvc, zapLogger)
	prodHandler := productionhandler.NewProductionHandler(prodSvc)

	// Maintenance
	maintRepos := maintenancerepo.NewRepositories(db)
	maintSvc := maintenancesvc.NewMaintenanceService(maintRepos, notifier, zapLogger, cfg.Maintenance.OverdueAfterDays, cfg.Notify.MaintenanceRecipient, cfg.Notify.ProductionRecipient)
	machineSvc := maintenancesvc.NewMachineService(maintRepos.Machine)
	attachmentSvc := maintenancesvc.NewAttachmentService(maintRepos, minioClient, cfg.MinIO.Bucket)
	maintHandler := maintenancehandler.NewMaintenanceHandler(maintSvc, machineSvc, attachmentSvc)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	procHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	materialHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	supplierHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	orderHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	prodHandler.RegisterRoutes(v1, cfg.JWT.Secret)
	maintHandler.RegisterRoutes(v1, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinIO(cfg config.MinIOConfig, zapLogger *zap.Logger) *minio.Client {
	if cfg.Endpoint == "" {
		zapLogger.Warn("MinIO not configured, attachment storage disabled")
		return nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		zapLogger.Warn("Failed to init MinIO client, attachment storage disabled", zap.Error(err))
		return nil
	}
	return client
}

func initNotifier(cfg config.NotifyConfig, zapLogger *zap.Logger) notify.Notifier {
	if cfg.SMTPHost == "" {
		zapLogger.Warn("SMTP not configured, notifications go to the log")
		return notify.NewLogNotifier(zapLogger)
	}
	return notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
}
