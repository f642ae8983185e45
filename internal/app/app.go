package app

import (
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"

	"outreach/internal/cache"
	"outreach/internal/config"
	"outreach/internal/provider"
	"outreach/internal/queue"
	"outreach/internal/repository"
	"outreach/internal/service"
)

// BuildEngine wires repositories, providers and services into the batch
// scheduler. The returned queue connection is nil when the broker is
// unreachable; event publication is best-effort so the engine still runs.
// Callers own closing the connection.
func BuildEngine(cfg *config.Config, db *sql.DB) (*service.Engine, *queue.Connection) {
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	eventRepo := repository.NewEventRepository(db)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		log.Printf("Template cache enabled (redis: %s)", cfg.Redis.Addr)
	}
	templates := cache.NewTemplateCache(templateRepo, redisClient, cfg.Redis.TemplateTTL)

	var (
		conn      *queue.Connection
		publisher service.EventPublisher
	)
	c, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Printf("Warning: event stream unavailable, continuing without it: %v", err)
	} else {
		conn = c
		p, err := queue.NewPublisher(conn, queue.EventsQueue)
		if err != nil {
			log.Printf("Warning: failed to create event publisher: %v", err)
		} else {
			publisher = p
		}
	}

	recorder := service.NewEventRecorder(eventRepo, publisher)
	renderer := service.NewTemplateService()
	dispatcher := service.NewDispatcher(provider.Registry(cfg.Providers), cfg.Engine.SendTimeout)
	advancer := service.NewAdvancer(cfg.Engine.MaxAttempts, cfg.Engine.RetryBackoff)

	engine := service.NewEngine(
		enrollmentRepo,
		campaignRepo,
		templates,
		leadRepo,
		recorder,
		renderer,
		dispatcher,
		advancer,
		service.EngineOptions{
			BatchSize: cfg.Engine.BatchSize,
			Workers:   cfg.Engine.Workers,
			ClaimTTL:  cfg.Engine.ClaimTTL,
		},
	)

	return engine, conn
}
