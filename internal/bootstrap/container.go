package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"starter-coach-be/internal/config"
	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/controller"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/handler"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/repository/implementation"
	"starter-coach-be/internal/repository/memory"
	"starter-coach-be/internal/service"
	"starter-coach-be/internal/websocket"
	"starter-coach-be/pkg/catalog"
	"starter-coach-be/pkg/dashboard"
	"starter-coach-be/pkg/database"
	"starter-coach-be/pkg/eventlog"
	"starter-coach-be/pkg/logwatch"
	pktNats "starter-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config *config.Config
	Logger logger.ILogger

	// Controllers & handlers
	CoachController controller.ICoachController
	LiveHandler     *handler.LiveHandler

	SessionService    service.ISessionService
	CompletionService service.ICompletionService

	// Background services (run by Start)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub
	LogWatcher      *logwatch.Watcher

	EventLog eventlog.EventLog

	closers []func() error
}

func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	if sysLogger == nil {
		sysLogger = logger.NewNopLogger()
	}
	c := &Container{Config: cfg, Logger: sysLogger}

	// 1. Event log backend
	eventLog, err := c.newEventLog()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.EventLog = eventLog

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	c.closers = append(c.closers, pubSub.Close)
	partitionPublisher := service.NewPublisherService(constant.TopicPartitionChanged, pubSub)

	// 3. Optional infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Container", "NATS unavailable, completion events stay local", map[string]interface{}{"error": err.Error()})
			natsPub = nil
		} else {
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	rdb := c.newRedis()

	// 4. Services
	cat := catalog.Default()
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL)
	c.SessionService = service.NewSessionService(sessionRepo, cfg.Session.Secret, cfg.Session.TTL)

	completionOpts := []service.CompletionOption{}
	if natsPub != nil {
		completionOpts = append(completionOpts, service.WithEventPublisher(natsPub))
	}

	// With the watcher on, every write to the directory (ours included) is
	// announced by the watcher, so the service does not announce again.
	watch := cfg.EventLog.WatchEnabled && cfg.EventLog.Backend == config.LogBackendFile
	if watch {
		w, err := logwatch.New(cfg.EventLog.Dir, func(day time.Time) {
			announcePartition(partitionPublisher, day, sysLogger)
		}, sysLogger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.LogWatcher = w
	} else {
		completionOpts = append(completionOpts, service.WithPartitionNotifier(partitionPublisher))
	}

	c.CompletionService = service.NewCompletionService(cat, eventLog, dashboard.NewAggregator(), sysLogger, completionOpts...)
	coachService := service.NewCoachService(cat)

	// 5. Live dashboard
	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, constant.TopicPartitionChanged, c.CompletionService, c.WebSocketHub, sysLogger)

	// 6. Controllers
	c.CoachController = controller.NewCoachController(coachService, c.CompletionService)
	c.LiveHandler = handler.NewLiveHandler(c.WebSocketHub, c.CompletionService, sysLogger)

	return c, nil
}

func (c *Container) newEventLog() (eventlog.EventLog, error) {
	cfg := c.Config
	switch cfg.EventLog.Backend {
	case config.LogBackendMemory:
		c.Logger.Info("Container", "Using in-memory event log", nil)
		return eventlog.NewMemoryStore(), nil

	case config.LogBackendPostgres:
		if cfg.Database.Connection == "" {
			return nil, errors.New("LOG_BACKEND=postgres requires DB_CONNECTION_STRING")
		}
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, sqlDB.Close)
		}
		repo := implementation.NewCompletionEventRepository(db, c.Logger)
		if err := repo.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate completion events: %w", err)
		}
		c.Logger.Info("Container", "Using PostgreSQL event log", nil)
		return repo, nil

	case config.LogBackendFile, "":
		store, err := eventlog.NewFileStore(cfg.EventLog.Dir, c.Logger)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("Container", "Using CSV event log", map[string]interface{}{"dir": store.Dir()})
		return store, nil

	default:
		return nil, fmt.Errorf("unknown LOG_BACKEND %q", cfg.EventLog.Backend)
	}
}

func (c *Container) newRedis() *redis.Client {
	url := c.Config.App.RedisURL
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		c.Logger.Warn("Container", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Container", "Redis unavailable, live updates stay on this instance", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	c.closers = append(c.closers, rdb.Close)
	return rdb
}

// Start launches the background workers. They stop when ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	if c.LogWatcher != nil {
		go func() {
			if err := c.LogWatcher.Run(ctx); err != nil {
				c.Logger.Error("Container", "Log watcher stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func announcePartition(publisher service.IPublisherService, day time.Time, log logger.ILogger) {
	payload, err := json.Marshal(dto.PartitionChangedMessage{Date: day.Format(constant.DateLayout)})
	if err == nil {
		err = publisher.Publish(context.Background(), payload)
	}
	if err != nil {
		log.Warn("LogWatcher", "Failed to announce partition change", map[string]interface{}{"error": err.Error()})
	}
}
