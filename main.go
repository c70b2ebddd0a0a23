package main

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"docportal/assets"
	"docportal/collections"
	"docportal/config"
	"docportal/handlers"
	"docportal/pdftemplates"
	"docportal/repository"
	"docportal/services"
	"docportal/verify"
)

// newAPI wires the repositories, template store and exporter for app.
func newAPI(app core.App, cfg *config.Config, logger *logrus.Logger) *handlers.API {
	repos := repository.New(app, logger)
	codec := verify.NewCodec(cfg.PublicOrigin, verify.WithSecret(cfg.VerifySecret))
	exporter := services.NewExporter(repos.Settings, codec, cfg.Company,
		services.WithLogoSource(assets.NewLoader(cfg.AssetTimeout)),
		services.WithRenderLog(repos.Renders),
		services.WithLogger(logger),
		services.WithAssetTimeout(cfg.AssetTimeout),
		services.WithConcurrency(cfg.ExportConcurrency),
	)
	return &handlers.API{
		Repos:     repos,
		Templates: pdftemplates.NewStore(repos, logger),
		Exporter:  exporter,
		Codec:     codec,
		Log:       logger,
		Now:       time.Now,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg)
	if cfg.VerifySecret == "" {
		logger.Warn("PORTAL_VERIFY_SECRET is not set, verification payloads are unsigned")
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(newRenderCmd(app, cfg, logger))

	// Create collections and seed system templates on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		api := newAPI(app, cfg, logger)

		// ── PDF settings ─────────────────────────────────────────
		se.Router.GET("/api/pdf-settings", handlers.HandleSettingsGet(api))
		se.Router.PUT("/api/pdf-settings/global", handlers.HandleSettingsGlobal(api))
		se.Router.POST("/api/pdf-settings/copy", handlers.HandleSettingsCopy(api))
		se.Router.GET("/api/pdf-settings/{type}", handlers.HandleSettingsEffective(api))
		se.Router.PUT("/api/pdf-settings/{type}", handlers.HandleSettingsReplace(api))
		se.Router.PATCH("/api/pdf-settings/{type}", handlers.HandleSettingsPatch(api))
		se.Router.POST("/api/pdf-settings/{type}/reset", handlers.HandleSettingsReset(api))
		se.Router.GET("/api/pdf-settings/{type}/export", handlers.HandleSettingsExport(api))
		se.Router.POST("/api/pdf-settings/{type}/import", handlers.HandleSettingsImport(api))

		// ── Templates ────────────────────────────────────────────
		// Export/import must be before {id} routes
		se.Router.GET("/api/pdf-templates/export", handlers.HandleTemplateExport(api))
		se.Router.POST("/api/pdf-templates/import", handlers.HandleTemplateImport(api))
		se.Router.GET("/api/pdf-templates", handlers.HandleTemplateList(api))
		se.Router.POST("/api/pdf-templates", handlers.HandleTemplateSave(api))
		se.Router.PATCH("/api/pdf-templates/{id}", handlers.HandleTemplateUpdate(api))
		se.Router.DELETE("/api/pdf-templates/{id}", handlers.HandleTemplateDelete(api))
		se.Router.POST("/api/pdf-templates/{id}/apply", handlers.HandleTemplateApply(api))
		se.Router.POST("/api/pdf-templates/{id}/duplicate", handlers.HandleTemplateDuplicate(api))
		se.Router.POST("/api/pdf-templates/{id}/default", handlers.HandleTemplateSetDefault(api))
		se.Router.GET("/api/pdf-templates/{id}/sheet", handlers.HandleTemplateSheet(api))

		// ── Documents and verification ───────────────────────────
		se.Router.POST("/api/documents/{type}/export", handlers.HandleDocumentExport(api))
		se.Router.POST("/api/verify", handlers.HandleVerifyPayload(api))
		se.Router.GET("/verify/{type}/{id}", handlers.HandleVerifyPage(api))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
