package audit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogFileCollector struct {
	fileName string
	logger   *zap.Logger
}

var _ Collector = new(LogFileCollector)

func NewLogFileCollector(fileName string) (*LogFileCollector, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewTee(zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel))
	return &LogFileCollector{
		fileName: fileName,
		logger:   zap.New(core),
	}, nil
}

func (lc *LogFileCollector) Collect(event Event) error {
	lc.logger.Info(event.Action,
		zap.String("eventId", event.EventId),
		zap.String("workflowId", event.WorkflowId),
		zap.String("actor", event.Actor),
		zap.String("outcome", event.Outcome),
		zap.Int64("latencyMs", event.Latency.Milliseconds()),
		zap.Float64("anomalyScore", event.AnomalyScore),
		zap.Any("details", event.Details),
		zap.Time("at", event.Timestamp),
	)
	return nil
}
