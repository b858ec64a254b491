package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ros_backend/pkg/analytics"
	"ros_backend/pkg/config"
	"ros_backend/pkg/extract"
	"ros_backend/pkg/middleware"
	"ros_backend/pkg/models"
	"ros_backend/pkg/report"
	"ros_backend/pkg/routes"
	"ros_backend/pkg/services"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log.Println("🚀 Starting ROS Data Analysis...")

	// Load the nine extracts
	log.Println("🔄 Loading ROS data files...")
	set, err := loadExtracts()
	if err != nil {
		log.Fatalf("❌ Error loading data: %v", err)
	}
	log.Println("✅ Data files loaded successfully")

	// Normalize and aggregate
	dataset := models.Decode(set)
	metrics, err := analytics.Analyze(dataset, analytics.Options{
		Strict: config.AppConfig.StrictPipeline,
	})
	if err != nil {
		log.Fatalf("❌ Analysis failed: %v", err)
	}

	// Analysis report
	report.Print(metrics)

	// Assemble and serialize the dashboard snapshot
	snapshot := analytics.Assemble(metrics)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to serialize dashboard data: %v", err)
	}
	if err := os.WriteFile(config.AppConfig.OutputFile, data, 0644); err != nil {
		log.Fatalf("❌ Failed to write dashboard data: %v", err)
	}
	log.Printf("✅ Dashboard data saved to '%s'\n", config.AppConfig.OutputFile)

	// Optional snapshot upload for the hosted dashboard page
	if config.AppConfig.GCPBucketName != "" {
		if err := services.InitGCPStorage(); err != nil {
			log.Printf("⚠️  Warning: GCP Storage initialization failed: %v", err)
		} else if url, err := services.UploadSnapshot(data, "ros_dashboard_data.json"); err != nil {
			log.Printf("⚠️  Warning: snapshot upload failed: %v", err)
		} else {
			log.Printf("✅ Snapshot uploaded to %s\n", url)
		}
	}

	if config.AppConfig.ServeDashboard {
		runServer(snapshot)
	}
}

// loadExtracts reads the nine extracts from the configured source.
func loadExtracts() (extract.Set, error) {
	switch config.AppConfig.DataFormat {
	case "xlsx":
		return extract.LoadXLSXDir(config.AppConfig.DataDir)
	case "db":
		db, err := extract.OpenDatabase(config.AppConfig.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return extract.LoadDatabase(db)
	default:
		return extract.LoadDir(config.AppConfig.DataDir)
	}
}

// runServer exposes the computed snapshot over HTTP for the dashboard page.
func runServer(snapshot *analytics.Snapshot) {
	// Set Gin mode based on environment
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorMiddleware())
	router.NoRoute(middleware.NotFoundHandler())
	setupCORS(router)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ROS Dashboard Backend is running...")
	})
	api := router.Group("/api")
	routes.RegisterDashboardRoutes(api, snapshot)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: router,
	}

	// Server startup in goroutine
	go func() {
		log.Printf("🚀 Server running in %s mode\n", config.AppConfig.Environment)
		log.Printf("📡 Server listening on http://localhost:%s\n", config.AppConfig.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// setupCORS configures CORS for the dashboard frontend
func setupCORS(router *gin.Engine) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if config.IsProduction() && config.AppConfig.AllowedOrigins != "" {
		corsConfig.AllowOrigins = parseOrigins(config.AppConfig.AllowedOrigins)
		log.Printf("🔒 CORS enabled for origins: %v\n", corsConfig.AllowOrigins)
	} else {
		// The dashboard is a static page; trust any origin outside production
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return true
		}
		log.Println("🔓 CORS enabled for all origins")
	}

	router.Use(cors.New(corsConfig))
}

// parseOrigins splits comma-separated origin string
func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
