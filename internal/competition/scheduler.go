package competition

import (
	"pcd/internal/competition/interfaces"
	"pcd/internal/providers"
	"pcd/internal/services"
	"pcd/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler runs the two periodic jobs of the daemon: persisting the ledger
// store and syncing lazily observed phase transitions so push subscribers
// hear about them. Neither job is load-bearing for correctness: reads derive
// phases on their own and a missed save only widens the restart window.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	cycles    services.CycleServiceInterface
	fileStore *FileStore
	metrics   providers.MetricsProviderInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		err := s.fileStore.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.logger.Infof(providers.TypeApp, "Persisted ledgers to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(s.config.Rounds.SyncInterval), func() {
		s.cycles.SyncAll()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileStore.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting ledgers to file...")
	err := s.fileStore.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, cycles services.CycleServiceInterface, fileStore *FileStore, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		cycles:    cycles,
		fileStore: fileStore,
		metrics:   metrics,
	}
}
