package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/jonesrussell/document-manager/internal/api"
	"github.com/jonesrussell/document-manager/internal/config"
	"github.com/jonesrussell/document-manager/internal/database"
	"github.com/jonesrussell/document-manager/internal/events"
	"github.com/jonesrussell/document-manager/internal/handlers"
	"github.com/jonesrussell/document-manager/internal/logger"
	"github.com/jonesrussell/document-manager/internal/pdf"
	"github.com/jonesrussell/document-manager/internal/processor"
	"github.com/jonesrussell/document-manager/internal/repository"
	"github.com/jonesrussell/document-manager/internal/storage"
	"github.com/jonesrussell/document-manager/internal/template"
	"github.com/jonesrussell/document-manager/internal/upload"
)

// SetupHTTPServer wires the pipeline components and returns the configured
// HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) (*http.Server, error) {
	store, err := storage.NewLocalStore(cfg.Storage.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}

	tagRepo := repository.NewTagRepository(db.DB(), log)
	classificationRepo := repository.NewClassificationRepository(db.DB(), log)
	documentRepo := repository.NewDocumentRepository(db.DB(), log)

	pages := pdf.NewPageCounter(log)
	extractor := upload.NewExtractor(log)
	generator := template.NewGenerator(pages, log)
	proc := processor.New(store, pages, tagRepo, classificationRepo, documentRepo, publisher, log)

	ingestHandler := handlers.NewIngestHandler(extractor, generator, proc, tagRepo, classificationRepo, log)
	documentHandler := handlers.NewDocumentHandler(documentRepo, log)

	router := api.NewRouter(ingestHandler, documentHandler, cfg.Server.CORSOrigins, log)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
