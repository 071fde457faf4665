// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/controller"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/db"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/handler"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/middleware"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/provider"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/queue"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	webhookURL := os.Getenv("MARKETING_WEBHOOK_URL")
	if webhookURL == "" {
		log.Fatal("MARKETING_WEBHOOK_URL not configured")
	}
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not configured")
	}

	// Init DB
	db.Init()

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	unitRepo := &repository.UnitRepository{DB: db.DB}
	clientRepo := &repository.ClientRepository{DB: db.DB}

	statusService := &service.StatusService{CampaignRepo: campaignRepo}

	// Status sync goes through AMQP when a broker is configured; otherwise
	// the in-memory queue runs the subscriber in-process.
	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpQueue, err := queue.NewAMQPQueue(amqpURL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Println("✅ Connected to RabbitMQ")
	} else {
		log.Println("⚠️ AMQP_URL not set, using in-memory status sync")
		memQueue := queue.NewInMemoryQueue()
		queue.StartStatusSyncSubscriber(memQueue, statusService)
		q = memQueue
	}

	dispatchService := &service.DispatchService{
		CampaignRepo: campaignRepo,
		UnitRepo:     unitRepo,
		ClientRepo:   clientRepo,
		Sender:       provider.NewWebhookSender(webhookURL),
		BaseURL:      baseURL,
	}
	callbackService := &service.CallbackService{
		CampaignRepo: campaignRepo,
		Queue:        q,
	}
	campaignService := &service.CampaignService{CampaignRepo: campaignRepo}

	campaignController := &controller.CampaignController{
		DispatchService: dispatchService,
		StatusService:   statusService,
		CampaignService: campaignService,
	}
	callbackHandler := &handler.CallbackHandler{
		CallbackService: callbackService,
		StatusService:   statusService,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// User-facing campaign routes
	r.Route("/campaigns", func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))
		r.Post("/send", campaignController.SendCampaign)
		r.Get("/", campaignController.ListCampaigns)
		r.Get("/{id}/status", campaignController.GetCampaignStatus)
	})

	// Provider-facing callback routes (secret-authenticated)
	r.Route("/callbacks", func(r chi.Router) {
		r.Post("/campaign", callbackHandler.MessageStatus)
		r.Post("/update-status", callbackHandler.UpdateStatus)
		r.Get("/check-status", callbackHandler.CheckStatus)
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("🚀 Server running on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
