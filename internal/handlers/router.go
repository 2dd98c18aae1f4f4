package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"finance_tracker/internal/middleware"
)

// NewRouter builds the API router.
func NewRouter(deps *Dependencies) *chi.Mux {
	authHandler := NewAuthHandler(deps)
	ledgerHandler := NewLedgerHandler(deps)
	loanHandler := NewLoanHandler(deps)
	portfolioHandler := NewPortfolioHandler(deps)
	assetHandler := NewAssetHandler(deps)
	netWorthHandler := NewNetWorthHandler(deps)
	fireHandler := NewFIREHandler(deps)
	reportHandler := NewReportHandler(deps)
	refreshHandler := NewRefreshHandler(deps)
	exportHandler := NewExportHandler(deps)
	userLoader := middleware.NewUserLoader(deps.Services.Repos.Users)

	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(chimw.Recoverer)

	// Security headers for all responses
	r.Use(middleware.SecurityHeaders)

	// Health check
	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireToken(deps.Verifier))
		r.Use(middleware.ReadOnlyInDemo(deps.DemoMode))

		// Rate limited to slow down name enumeration
		r.With(middleware.LimitAuth).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.LimitAPI)

			r.Get("/users", authHandler.ListUsers)

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Use(userLoader.LoadUser)

				// Refresh fans out to the market data provider
				r.With(middleware.LimitRefresh).Post("/refresh", refreshHandler.Run)
				r.Get("/refresh/runs", refreshHandler.Runs)

				// Ledger
				r.Get("/entries", ledgerHandler.ListEntries)
				r.Post("/entries", ledgerHandler.CreateEntry)
				r.Delete("/entries/{entryID}", ledgerHandler.DeleteEntry)
				r.Get("/commitments", ledgerHandler.ListCommitments)
				r.Post("/commitments", ledgerHandler.CreateCommitment)
				r.Delete("/commitments/{commitmentID}", ledgerHandler.DeleteCommitment)

				// Loans
				r.Get("/loans", loanHandler.List)
				r.Post("/loans", loanHandler.Create)
				r.Get("/loans/statements", loanHandler.Statements)
				r.Delete("/loans/{loanID}", loanHandler.Delete)

				// Portfolio
				r.Get("/lots", portfolioHandler.ListLots)
				r.Post("/lots", portfolioHandler.AddLot)
				r.Post("/lots/{symbol}/sell", portfolioHandler.Sell)
				r.Get("/portfolio", portfolioHandler.Summary)

				// Assets
				r.Get("/assets", assetHandler.List)
				r.Post("/assets", assetHandler.Create)
				r.Delete("/assets/{assetID}", assetHandler.Delete)

				// Net worth
				r.Get("/networth", netWorthHandler.Current)
				r.Post("/networth", netWorthHandler.Record)
				r.Get("/networth/history", netWorthHandler.History)

				// Projections
				r.Get("/fire/defaults", fireHandler.Defaults)
				r.Post("/fire", fireHandler.Project)
				r.Get("/forecast", reportHandler.Forecast)
				r.Get("/cashflow", reportHandler.CashFlow)

				// Export
				r.Get("/export/entries.csv", exportHandler.EntriesCSV)
				r.Get("/export/entries.xlsx", exportHandler.EntriesXLSX)
				r.Get("/export/networth.xlsx", exportHandler.NetWorthXLSX)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}

// handleHealth returns the server health status.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
