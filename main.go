package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"roofops/collections"
	"roofops/handlers"
	"roofops/nexus"
	"roofops/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateMissingQuoteNumbers(app); err != nil {
			log.Printf("Warning: quote number migration failed: %v", err)
		}
		return se.Next()
	})

	catalog := services.NewCatalogCache()
	hub := nexus.NewHub(buildLLM())

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		api := se.Router.Group("/api")
		api.BindFunc(handlers.RequireAPIToken(os.Getenv("ROOFOPS_API_TOKEN")))

		// ── Service catalog ──────────────────────────────────────
		api.GET("/catalog", handlers.HandleCatalogList(app, catalog))
		api.GET("/catalog/rate", handlers.HandleCatalogRate(app, catalog))
		api.POST("/catalog/refresh", handlers.HandleCatalogRefresh(app, catalog))

		// ── Lead CRM ─────────────────────────────────────────────
		api.GET("/leads", handlers.HandleLeadList(app))
		api.POST("/leads", handlers.HandleLeadCreate(app))
		api.POST("/leads/merge", handlers.HandleLeadMerge(app))
		api.GET("/leads/export", handlers.HandleLeadExport(app))
		api.POST("/leads/import/validate", handlers.HandleLeadImportValidate(app))
		api.POST("/leads/import", handlers.HandleLeadImportCommit(app))
		api.GET("/leads/{id}", handlers.HandleLeadView(app))
		api.POST("/leads/{id}", handlers.HandleLeadUpdate(app))
		api.DELETE("/leads/{id}", handlers.HandleLeadDelete(app))

		// ── Inspections ──────────────────────────────────────────
		api.GET("/inspections", handlers.HandleInspectionList(app))
		api.POST("/inspections", handlers.HandleInspectionCreate(app))
		api.POST("/inspections/{id}", handlers.HandleInspectionUpdate(app))
		api.DELETE("/inspections/{id}", handlers.HandleInspectionDelete(app))

		// ── Quotes ───────────────────────────────────────────────
		api.GET("/quotes", handlers.HandleQuoteList(app))
		api.POST("/quotes", handlers.HandleQuoteCreate(app))
		api.GET("/quotes/{id}", handlers.HandleQuoteView(app))
		api.POST("/quotes/{id}/items", handlers.HandleQuoteSave(app))
		api.POST("/quotes/{id}/status", handlers.HandleQuoteStatus(app))
		api.GET("/quotes/{id}/pdf", handlers.HandleQuotePDF(app))
		api.POST("/quotes/{id}/send", handlers.HandleQuoteSend(app))
		api.DELETE("/quotes/{id}", handlers.HandleQuoteDelete(app))

		// ── Assistant ────────────────────────────────────────────
		api.POST("/chat/sessions", handlers.HandleChatSessionCreate(app))
		api.GET("/chat/sessions/{id}/messages", handlers.HandleChatHistory(app))
		api.POST("/chat/sessions/{id}/messages", handlers.HandleChatMessage(app, hub))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// buildLLM wires the Gemini client when an API key is present. Without one
// the assistant endpoints report unavailable instead of failing at startup.
func buildLLM() nexus.LLM {
	apiKey := os.Getenv("NEXUS_GEMINI_API_KEY")
	if apiKey == "" {
		log.Printf("NEXUS_GEMINI_API_KEY not set, assistant disabled")
		return nil
	}

	llm, err := nexus.NewGeminiLLM(context.Background(), apiKey, os.Getenv("NEXUS_MODEL"))
	if err != nil {
		log.Printf("Warning: gemini client init failed: %v", err)
		return nil
	}
	return llm
}
