package agent

import (
	"sync"
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/audit"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/config"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/dispatch"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/engine"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence/memory"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence/redis"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/rest"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/scheduler"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/service"
)

var defaultServiceCenters = []string{"center-north", "center-south", "center-east"}

type Agent struct {
	Config          config.Config
	storage         persistence.Storage
	sink            audit.Sink
	catalog         *scheduler.Catalog
	engine          *engine.Engine
	dispatcher      *dispatch.Dispatcher
	timers          *dispatch.TimerManager
	sweeper         *dispatch.Sweeper
	workflowService *service.WorkflowService
	httpServer      *rest.Server
	shutdown        bool
	shutdowns       chan struct{}
	shutdownLock    sync.Mutex
	wg              sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupAuditSink,
		a.setupEngine,
		a.setupDispatcher,
		a.setupWorkflowService,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		a.storage = redis.NewStorage(redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
	default:
		a.storage = memory.NewStorage()
	}
	return nil
}

func (a *Agent) setupAuditSink() error {
	var collector audit.Collector
	var err error
	switch a.Config.AuditCollectorType {
	case config.REDIS_STREAM_AUDIT_COLLECTOR:
		collector = audit.NewRedisStreamCollector(a.Config.RedisConfig.Addrs, a.Config.RedisConfig.Namespace)
	default:
		collector, err = audit.NewLogFileCollector(a.Config.AuditLogFile)
		if err != nil {
			return err
		}
	}
	var scorer audit.Scorer
	if len(a.Config.AnomalyScriptFile) > 0 {
		scorer, err = audit.NewJsScorerFromFile(a.Config.AnomalyScriptFile)
		if err != nil {
			return err
		}
	} else {
		scorer = audit.NewRateScorer(time.Minute, 60, 5*time.Second)
	}
	a.sink = audit.NewSink(collector, scorer)
	return nil
}

func (a *Agent) setupEngine() error {
	a.catalog = scheduler.NewCatalog()
	now := time.Now()
	a.catalog.Seed(defaultServiceCenters, now, now.Add(a.Config.Scheduling.MaxLookahead), a.Config.Scheduling.ServiceDuration, 4)

	collaborators := engine.Collaborators{
		Diagnosis:  collaborator.NewRuleDiagnosisService(),
		Scheduling: a.catalog,
		Engagement: collaborator.NewTemplateEngagement(nil),
		Feedback:   collaborator.NewSurveyFeedback(nil),
	}
	a.timers = dispatch.NewTimerManager()
	a.engine = engine.NewEngine(a.Config, a.storage, a.sink, collaborators, a.timers)
	return nil
}

func (a *Agent) setupDispatcher() error {
	a.dispatcher = dispatch.NewDispatcher(a.engine, a.Config.PartitionCount, a.Config.PartitionCapacity, &a.wg)
	a.sweeper = dispatch.NewSweeper(a.engine, a.Config.SweepInterval, &a.wg)
	return nil
}

func (a *Agent) setupWorkflowService() error {
	a.workflowService = service.NewWorkflowService(a.engine, a.storage, a.dispatcher.Submit)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.workflowService)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	a.timers.Start()
	a.dispatcher.Start()
	a.sweeper.Start()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server stopped")
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			a.sweeper.Stop()
			a.dispatcher.Stop()
			a.timers.Stop()
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	logger.Sync()
	return nil
}
