package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/config"
	"verb-quiz-portal/internal/domain"
	fileinfra "verb-quiz-portal/internal/infra/file"
	"verb-quiz-portal/internal/infra/memory"
	pginfra "verb-quiz-portal/internal/infra/postgres"
	redisinfra "verb-quiz-portal/internal/infra/redis"
	transport "verb-quiz-portal/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/crypto/bcrypt"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var pool *pgxpool.Pool
	var bunDB *bun.DB
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bunDB = bun.NewDB(sqldb, pgdialect.New())
		defer bunDB.Close()
	}

	var loader app.CatalogLoader
	switch {
	case pool != nil:
		loader = pginfra.NewCatalogLoader(pool)
	case cfg.Catalog.Path != "":
		loader = fileinfra.NewCatalogLoader(cfg.Catalog.Path)
	default:
		loader = memory.NewStaticCatalogLoader(sampleQuizzes())
	}
	catalog, err := loader.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	if catalog.Len() == 0 {
		log.Printf("quiz catalog is empty; the portal will list no quizzes")
	}

	var store app.ResultsStore
	if bunDB != nil {
		store = pginfra.NewResultsStore(bunDB)
	} else {
		path := cfg.Results.Path
		if path == "" {
			path = "quiz_results.csv"
		}
		store = fileinfra.NewResultsStore(path)
	}

	var students app.StudentDirectory
	if cfg.Students.Path != "" {
		students, err = fileinfra.NewStudentDirectory(cfg.Students.Path)
		if err != nil {
			return err
		}
	} else {
		students = memory.NewStaticStudentDirectory(sampleStudents())
	}

	service := app.NewPortalService(catalog, store, students)

	cacheTTL := config.TTLDuration(cfg.Dashboard.CacheTTL, 30*time.Second)
	var reports app.ReportProvider
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		reports = redisinfra.NewReportCache(redisClient, service, cacheTTL)
	} else {
		reports = memory.NewReportCache(service, cacheTTL)
	}

	if cfg.Teacher.Password == "" {
		log.Printf("no teacher password configured; dashboard endpoints are disabled")
	}

	handler := transport.NewHandler(service, reports, cfg.Teacher.Password)
	wsHandler := transport.NewWSHandler(service, cfg.Teacher.Password)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/teacher/dashboard/live", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz portal on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore builds the results store for offline commands (report, export).
func openStore(cfg config.Config) (app.ResultsStore, func(), error) {
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		return pginfra.NewResultsStore(db), func() { _ = db.Close() }, nil
	}
	path := cfg.Results.Path
	if path == "" {
		path = "quiz_results.csv"
	}
	return fileinfra.NewResultsStore(path), func() {}, nil
}

// sampleQuizzes seeds a minimal catalog for local runs without a configured
// definition source.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"week1": {
			DueDate: time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
			Verbs: []domain.VerbEntry{
				{Verb: "run", Forms: domain.VerbForms{
					Base:           "run",
					ThirdPerson:    "runs",
					Participle:     "running",
					Past:           "ran",
					PastParticiple: "run",
				}},
				{Verb: "go", Forms: domain.VerbForms{
					Base:           "go",
					ThirdPerson:    "goes",
					Participle:     "going",
					Past:           "went",
					PastParticiple: "gone",
				}},
			},
		},
	}
}

// sampleStudents seeds one demo account for local runs without a directory
// file. The password is "changeme".
func sampleStudents() map[string]domain.Student {
	hash, _ := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	return map[string]domain.Student{
		"s-001": {
			Name:         "Sample Student",
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
			Teacher:      "default",
		},
	}
}
