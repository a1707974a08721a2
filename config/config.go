package config

import "time"

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type AuditCollectorType string

const LOG_FILE_AUDIT_COLLECTOR AuditCollectorType = "logfile"
const REDIS_STREAM_AUDIT_COLLECTOR AuditCollectorType = "redis"

type Config struct {
	HttpPort           int
	StorageType        StorageType
	RedisConfig        RedisConfig
	PartitionCount     int
	PartitionCapacity  int
	AuditCollectorType AuditCollectorType
	AuditLogFile       string
	AnomalyScriptFile  string
	SweepInterval      time.Duration
	Retry              RetryConfig
	Engagement         EngagementConfig
	Scheduling         SchedulingConfig
	Feedback           FeedbackConfig
	Breaker            BreakerConfig
	LogLevel           string
}

type RedisConfig struct {
	Addrs     []string
	Namespace string
}

// RetryConfig bounds collaborator retries. These are deployment tunables,
// not protocol: the state machine only requires that budgets are finite.
type RetryConfig struct {
	DiagnosisAttempts  int
	SlotSearchAttempts int
	BookingAttempts    int
	InitialBackoff     time.Duration
	MaxBackoff         time.Duration
	CallTimeout        time.Duration
}

type EngagementConfig struct {
	ContactAttempts int
	ResponseTimeout time.Duration
}

type SchedulingConfig struct {
	MaxLookahead    time.Duration
	ServiceDuration time.Duration
}

type FeedbackConfig struct {
	Window time.Duration
}

type BreakerConfig struct {
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
}

func Default() Config {
	return Config{
		HttpPort:           8080,
		StorageType:        STORAGE_TYPE_INMEM,
		PartitionCount:     16,
		PartitionCapacity:  256,
		AuditCollectorType: LOG_FILE_AUDIT_COLLECTOR,
		AuditLogFile:       "audit.log",
		SweepInterval:      30 * time.Second,
		Retry: RetryConfig{
			DiagnosisAttempts:  3,
			SlotSearchAttempts: 3,
			BookingAttempts:    3,
			InitialBackoff:     500 * time.Millisecond,
			MaxBackoff:         30 * time.Second,
			CallTimeout:        10 * time.Second,
		},
		Engagement: EngagementConfig{
			ContactAttempts: 3,
			ResponseTimeout: 15 * time.Minute,
		},
		Scheduling: SchedulingConfig{
			MaxLookahead:    7 * 24 * time.Hour,
			ServiceDuration: 2 * time.Hour,
		},
		Feedback: FeedbackConfig{
			Window: 72 * time.Hour,
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 5,
			Interval:            60 * time.Second,
			Timeout:             30 * time.Second,
		},
		LogLevel: "info",
	}
}
