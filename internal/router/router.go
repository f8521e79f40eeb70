package router

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	_ "sintrom-ocr/docs"

	mem "sintrom-ocr/internal/adapters/storage/memory"
	pg "sintrom-ocr/internal/adapters/storage/postgres"
	"sintrom-ocr/internal/domain/audit"
	"sintrom-ocr/internal/domain/extraction"
	"sintrom-ocr/internal/export"
	"sintrom-ocr/internal/middleware"
	"sintrom-ocr/internal/platform/logger"
	"sintrom-ocr/internal/ports/ocr"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const Version = "1.0.0"

type Options struct {
	Logger logger.Logger // puede ser nil

	// Analyzer puede ser nil si Azure no está configurado: /extraccion/ responde 500 not_configured.
	Analyzer ocr.Analyzer
	Decoder  ocr.ResultDecoder

	// Opcional: si no viene, reglas por defecto con modelo M2.
	Engine *extraction.Engine

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	MaxUploadBytes int64
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.AccessLog)
	r.Use(middleware.Recover)

	r.Get("/health", healthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, using in-memory audit", map[string]any{"error": err})
			}
		}
	}

	var auditRepo audit.Repository
	if db != nil {
		pgRepo := pg.NewAuditRepo(db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Warn("audit schema not ensured", map[string]any{"error": err})
		}
		cancel()
		auditRepo = pgRepo
	} else {
		auditRepo = mem.NewAuditRepo()
	}

	engine := opts.Engine
	if engine == nil {
		model := extraction.DefaultModel
		if opts.Analyzer != nil {
			model = opts.Analyzer.ModelID()
		}
		engine = extraction.NewEngine(extraction.DefaultRules(), model, log)
	}

	// Services por módulo
	auditSvc := audit.NewService(auditRepo)
	extractionSvc := extraction.NewService(extraction.ServiceDeps{
		Engine:   engine,
		Analyzer: opts.Analyzer,
		Decoder:  opts.Decoder,
		Audit:    auditSvc,
		Logger:   log,
	})

	// Rutas por módulo
	extraction.RegisterRoutes(r, extractionSvc, extraction.HandlerOptions{
		MaxUploadBytes: opts.MaxUploadBytes,
		Workbook:       export.NewWorkbook(),
	})
	audit.RegisterRoutes(r, auditSvc)

	return r
}

// healthHandler godoc
// @Summary   Estado do servizo
// @Tags      health
// @Produce   json
// @Success   200  {object}  router.healthResponse
// @Router    /health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Version:   Version,
	})
}
