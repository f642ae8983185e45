package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"outreach/internal/config"
	"outreach/internal/models"
	"outreach/internal/queue"
)

// tally keeps rolling outcome counts from the delivery-event stream
type tally struct {
	mu     sync.Mutex
	counts map[models.EventOutcome]int
}

func (t *tally) record(event *models.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[event.Outcome]++
	log.Printf("event enrollment=%d step=%d channel=%s outcome=%s (sent=%d deferred=%d errors=%d)",
		event.EnrollmentID, event.StepIndex, event.Channel, event.Outcome,
		t.counts[models.OutcomeSent], t.counts[models.OutcomeQueuedQuiet], t.counts[models.OutcomeError])
	return nil
}

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer conn.Close()

	t := &tally{counts: make(map[models.EventOutcome]int)}

	consumer, err := queue.NewConsumer(conn, queue.EventsQueue, t.record)
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}
	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("Analytics tailer started, consuming from queue: %s", queue.EventsQueue)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}
	log.Println("Analytics tailer stopped")
}
