package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/dimondice01/finalDist-sub000/internal/database"
	"github.com/dimondice01/finalDist-sub000/internal/handler"
	"github.com/dimondice01/finalDist-sub000/internal/middleware"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/repository"
	"github.com/dimondice01/finalDist-sub000/internal/service"
	"github.com/dimondice01/finalDist-sub000/internal/snapshot"
	"github.com/dimondice01/finalDist-sub000/internal/state"
	"github.com/dimondice01/finalDist-sub000/internal/websocket"
)

// @title           Route Sales Sync API
// @version         1.0
// @description     Local-first sync core for a route sales operation: snapshot store, role-scoped sync, realtime merge and transactional inventory.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	// Remote store: Postgres-backed documents table when a database is
	// configured, in-memory otherwise (dev mode; audit trail disabled).
	var (
		remoteStore remote.Store
		auditRepo   repository.AuditRepository
	)
	if dsn := databaseDSN(); dsn != "" {
		db, err := database.NewConnection(dsn)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		log.Println("Connected to PostgreSQL successfully.")
		remoteStore = remote.NewPostgresStore(db)
		auditRepo = repository.NewAuditRepository(db)
	} else {
		log.Println("No database configured, using in-memory remote store (dev mode)")
		remoteStore = remote.NewMemoryStore()
	}

	// Local snapshot store
	snapPath := os.Getenv("SNAPSHOT_PATH")
	if snapPath == "" {
		snapPath = "data/snapshot.db"
	}
	snap, err := snapshot.Open(snapPath)
	if err != nil {
		log.Fatalf("Snapshot store open failed: %v", err)
	}
	defer snap.Close()

	// Hydrate in-memory state from the last persisted snapshot
	st := state.NewStore()
	data := snap.LoadAll()
	st.ReplaceAll(state.Snapshot{
		Products:   data.Products,
		Clients:    data.Clients,
		Categories: data.Categories,
		Promotions: data.Promotions,
		Zones:      data.Zones,
		Vendors:    data.Vendors,
		Sales:      data.Sales,
		Routes:     data.Routes,
	})
	st.MarkInitialDataLoaded()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Bridge state replacements to connected UI clients
	st.Subscribe(func(collection string) {
		msg, _ := json.Marshal(map[string]any{
			"event": websocket.EventStateUpdated,
			"data":  map[string]any{"collection": collection},
		})
		select {
		case wsHub.GetBroadcast() <- msg:
		default:
		}
	})

	// Set up dependencies (Repository -> Service -> Handler)
	authService := service.NewAuthService(remoteStore)
	syncService := service.NewSyncService(remoteStore, snap, st, wsHub)
	salesService := service.NewSalesService(remoteStore, auditRepo, wsHub)
	listener := service.NewListenerService(remoteStore, st)

	// Sellers go live after every successful sync; the listener's periodic
	// tick forces a silent refresh in return.
	syncService.OnVendorResolved(func(vendor model.Vendor) {
		if err := listener.Start(vendor); err != nil {
			log.Printf("listener start failed for vendor %s: %v", vendor.ID, err)
		}
	})
	listener.Resync = func() {
		snapData := st.Snapshot()
		for _, v := range snapData.Vendors {
			if v.Rank == model.RankSeller && v.AuthUID != "" {
				if err := syncService.FetchAndPersist(context.Background(), v.AuthUID, false); err != nil {
					log.Printf("periodic resync failed for vendor %s: %v", v.ID, err)
				}
				return
			}
		}
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	syncHandler := handler.NewSyncHandler(syncService, st)
	salesHandler := handler.NewSalesHandler(salesService, st)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	syncHandler.RegisterRoutes(api)
	salesHandler.RegisterRoutes(api)
	if auditRepo != nil {
		auditHandler := handler.NewAuditHandler(service.NewAuditService(auditRepo))
		auditHandler.RegisterRoutes(api)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// databaseDSN builds the connection string from DATABASE_URL or the DB_*
// variables. Empty means no database was configured at all.
func databaseDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	dbHost := os.Getenv("DB_HOST")
	dbName := os.Getenv("DB_NAME")
	if dbHost == "" && dbName == "" {
		return ""
	}

	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	return "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode
}
