package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// inlineTimeout bounds one inline notification.
const inlineTimeout = 30 * time.Second

// Dispatcher hands a new lead to the notification pipeline. It never blocks
// on delivery and never reports delivery failures to the caller.
type Dispatcher interface {
	DispatchLead(ctx context.Context, lead model.Lead)
}

// QueueDispatcher enqueues lead:notify tasks on asynq.
type QueueDispatcher struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewQueueDispatcher(client *asynq.Client, log zerolog.Logger) *QueueDispatcher {
	return &QueueDispatcher{client: client, log: log}
}

func (d *QueueDispatcher) DispatchLead(ctx context.Context, lead model.Lead) {
	task, err := NewLeadNotifyTask(lead)
	if err != nil {
		d.log.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to build lead notify task")
		return
	}
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		d.log.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to enqueue lead notify task")
		return
	}
	d.log.Debug().Str("lead_id", lead.ID).Str("task_id", info.ID).Msg("lead notify task enqueued")
}

// InlineDispatcher runs the notifier on a goroutine.
type InlineDispatcher struct {
	notifier Notifier
	log      zerolog.Logger
	wg       sync.WaitGroup
}

func NewInlineDispatcher(n Notifier, log zerolog.Logger) *InlineDispatcher {
	return &InlineDispatcher{notifier: n, log: log}
}

func (d *InlineDispatcher) DispatchLead(ctx context.Context, lead model.Lead) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// 请求结束后仍需发送，不继承请求的取消信号
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), inlineTimeout)
		defer cancel()
		if err := d.notifier.NotifyLead(sendCtx, lead); err != nil {
			d.log.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to send lead notification")
		}
	}()
}

// Wait blocks until every dispatched notification finished.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

// Service owns the asynq client and worker when Redis is configured.
type Service struct {
	Dispatcher Dispatcher

	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	log    zerolog.Logger
}

// New picks the queue dispatcher when cfg.RedisAddr is set, the inline one otherwise.
func New(cfg config.AppConfig, n Notifier, log zerolog.Logger) *Service {
	log = log.With().Str("component", "job").Logger()

	if cfg.RedisAddr == "" {
		return &Service{Dispatcher: NewInlineDispatcher(n, log), log: log}
	}

	redis := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client := asynq.NewClient(redis)
	server := asynq.NewServer(redis, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"default": 1,
		},
		Logger: asynqLogger{log: log},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskLeadNotify, loggingHandler(log, LeadNotifyHandler(n)))

	return &Service{
		Dispatcher: NewQueueDispatcher(client, log),
		client:     client,
		server:     server,
		mux:        mux,
		log:        log,
	}
}

// Start runs the worker in the background. It is a no-op without Redis.
func (s *Service) Start() error {
	if s.server == nil {
		return nil
	}
	s.log.Info().Msg("Starting background job server")
	return s.server.Start(s.mux)
}

// Stop shuts the worker down and closes the client.
func (s *Service) Stop() {
	if inline, ok := s.Dispatcher.(*InlineDispatcher); ok {
		inline.Wait()
	}
	if s.server == nil {
		return
	}
	s.log.Info().Msg("Stopping background job server")
	s.server.Shutdown()
	if err := s.client.Close(); err != nil {
		s.log.Warn().Err(err).Msg("failed to close asynq client")
	}
}

func loggingHandler(log zerolog.Logger, next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		log.Info().Str("type", t.Type()).Msg("Processing task")
		if err := next.ProcessTask(ctx, t); err != nil {
			log.Error().Err(err).Str("type", t.Type()).Msg("task failed")
			return err
		}
		log.Info().Str("type", t.Type()).Msg("task done")
		return nil
	})
}

// asynqLogger adapts zerolog to asynq.Logger.
type asynqLogger struct {
	log zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug().Msg(fmtArgs(args)) }
func (l asynqLogger) Info(args ...any) { l.log.Info().Msg(fmtArgs(args)) }
func (l asynqLogger) Warn(args ...any) { l.log.Warn().Msg(fmtArgs(args)) }
func (l asynqLogger) Error(args ...any) { l.log.Error().Msg(fmtArgs(args)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal().Msg(fmtArgs(args)) }

func fmtArgs(args []any) string {
	return fmt.Sprint(args...)
}
