package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	likeJob "bookheaven-backend/internal/domains/like/job"
	"bookheaven-backend/internal/shared"
)

// RedisOpt is the asynq connection for the configured Redis
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
}

// NewClient creates the producer side used by the API
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// Registrar is satisfied by *asynq.Scheduler
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	workerCfg config.WorkerConfig
}

func NewScheduler(redisCfg config.RedisConfig, workerCfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		RedisOpt(redisCfg),
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		workerCfg: workerCfg,
	}
}

// RegisterJobs registers every periodic task
func (s *Scheduler) RegisterJobs() error {
	return RegisterReconcileLikeCounts(s.scheduler, s.workerCfg.ReconcileCron)
}

// ================================================
// Reconcile like counts (daily, cron from WORKER_RECONCILE_CRON)
// ================================================
func RegisterReconcileLikeCounts(r Registrar, cronspec string) error {
	task, err := likeJob.NewReconcileCountsTask()
	if err != nil {
		return err
	}

	entryID, err := r.Register(
		cronspec,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Str("cron", cronspec).Msg("Failed to register ReconcileLikeCounts job")
		return err
	}

	log.Info().Str("cron", cronspec).Str("entry_id", entryID).Msg("Registered ReconcileLikeCounts")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
