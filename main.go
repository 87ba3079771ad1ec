package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/taskboard/modules/activity"
	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/cache"
	"github.com/example/taskboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 3000)
	dbPath := getEnv("DB_PATH", "taskboard.db")
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	authUsername := getEnv("AUTH_USERNAME", "admin")
	authPassword := getEnv("AUTH_PASSWORD", "admin")

	jwtConfig := auth.DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		jwtConfig.SecretKey = secret
	}

	log.Println("=== Taskboard ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Database: %s", dbPath)
	if redisAddr != "" {
		log.Printf("Redis: %s (TTL %s)", redisAddr, cacheTTL)
	} else {
		log.Println("Redis: disabled")
	}

	// Create modules
	cacheModule := cache.NewModule(cache.Config{
		RedisAddr: redisAddr,
		Prefix:    "taskboard:",
		TTL:       cacheTTL,
	})
	activityModule := activity.NewModule()
	taskModule := task.NewModule(dbPath)
	authModule := auth.NewModule(auth.Config{
		Username: authUsername,
		Password: authPassword,
		JWT:      jwtConfig,
	})
	apiModule := api.NewModule(httpPort)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework.
	// Order: independent modules first, then dependent modules.
	app.Register(cacheModule)
	app.Register(activityModule)
	app.Register(taskModule) // depends on activity
	app.Register(authModule)
	app.Register(apiModule) // depends on auth, task, activity

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire the optional list cache after start, once Redis is up.
	if c := cacheModule.GetCache(); c != nil {
		taskModule.SetCache(c)
	}

	printStartupInfo(httpPort)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /auth/login        - Login and get a bearer token")
	log.Println("  GET    /health            - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /tasks             - Create a task")
	log.Println("  GET    /tasks             - List tasks (newest first)")
	log.Println("  GET    /tasks/:id         - Get a task")
	log.Println("  PUT    /tasks/:id/status  - Move a task to a status")
	log.Println("  PUT    /tasks/:id         - Edit title/description")
	log.Println("  GET    /activity          - Recent task lifecycle record")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
