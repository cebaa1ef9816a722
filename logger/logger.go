package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/xmansible/common"
)

// Log is the global logger instance of XMLog.
var Log *XMLog

// XMLog wraps logrus.Logger with run-scoped helpers.
type XMLog struct {
	*logrus.Logger
}

var defaultFieldsOrder = []string{
	common.RunID, common.PlaybookName, common.PlayName, common.TaskName, common.HostName,
}

func init() {
	Log = NewXMLog(os.Stderr, false, logrus.InfoLevel)
}

func consoleFormatter(verbose bool) *Formatter {
	display := ShowAboveWarn
	if verbose {
		display = ShowAll
	}
	return &Formatter{
		TimestampFormat:        "15:04:05",
		DisplayLevelName:       display,
		DisableCaller:          true,
		FieldsDisplayWithOrder: defaultFieldsOrder,
	}
}

// InitGlobalLogger replaces the global Log. Console output goes to stderr so
// stdout stays free for command results. When outputPath is set, every
// enabled level is also written to a daily-rotated app.log in that directory.
func InitGlobalLogger(outputPath string, verbose bool, defaultLevel logrus.Level) error {
	logger := logrus.New()

	currentLogLevel := defaultLevel
	if verbose {
		currentLogLevel = logrus.DebugLevel
	}
	logger.SetLevel(currentLogLevel)
	logger.SetReportCaller(true)
	logger.SetFormatter(consoleFormatter(verbose))
	logger.SetOutput(os.Stderr)

	if outputPath != "" {
		if err := os.MkdirAll(outputPath, common.FileMode0755); err != nil {
			return fmt.Errorf("failed to create log output directory %s: %w", outputPath, err)
		}
		logFilePath := filepath.Join(outputPath, "app.log")

		writer, err := rotatelogs.New(
			logFilePath+".%Y%m%d",
			rotatelogs.WithLinkName(logFilePath),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize rotatelogs for %s: %w", logFilePath, err)
		}

		fileFormatter := &Formatter{
			TimestampFormat:        "2006-01-02 15:04:05.000 MST",
			NoColors:               true,
			DisplayLevelName:       ShowAll,
			FieldsDisplayWithOrder: defaultFieldsOrder,
			FieldSeparator:         " | ",
			CustomCallerFormatter: func(frame *runtime.Frame) string {
				return fmt.Sprintf(" [%s:%d %s]", filepath.Base(frame.File), frame.Line, filepath.Base(frame.Function))
			},
		}

		logWriters := lfshook.WriterMap{}
		for _, level := range logrus.AllLevels {
			if logger.IsLevelEnabled(level) {
				logWriters[level] = writer
			}
		}
		logger.Hooks.Add(lfshook.NewHook(logWriters, fileFormatter))
	}

	Log = &XMLog{Logger: logger}
	return nil
}

// NewXMLog creates a console logger writing to out.
func NewXMLog(out io.Writer, verbose bool, defaultLevel logrus.Level) *XMLog {
	logger := logrus.New()
	if verbose {
		defaultLevel = logrus.DebugLevel
	}
	logger.SetLevel(defaultLevel)
	logger.SetFormatter(consoleFormatter(verbose))
	logger.SetOutput(out)
	return &XMLog{Logger: logger}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *XMLog {
	return NewXMLog(io.Discard, false, logrus.PanicLevel)
}

// Run returns an entry tagged with the run ID.
func (xl *XMLog) Run(runID string) *logrus.Entry {
	return xl.WithField(common.RunID, runID)
}

// Playbook returns an entry tagged with the run ID and playbook path.
func (xl *XMLog) Playbook(runID, playbook string) *logrus.Entry {
	return xl.WithFields(logrus.Fields{common.RunID: runID, common.PlaybookName: playbook})
}

// Host returns an entry tagged with the run ID, task and host of an engine event.
func (xl *XMLog) Host(runID, task, host string) *logrus.Entry {
	fields := logrus.Fields{common.RunID: runID, common.HostName: host}
	if task != "" {
		fields[common.TaskName] = task
	}
	return xl.WithFields(fields)
}

func (xl *XMLog) InfofRun(runID string, format string, args ...interface{}) {
	xl.Run(runID).Infof(format, args...)
}

func (xl *XMLog) WarnfPlaybook(runID, playbook string, format string, args ...interface{}) {
	xl.Playbook(runID, playbook).Warnf(format, args...)
}

func (xl *XMLog) ErrorfRun(runID string, err error, format string, args ...interface{}) {
	entry := xl.Run(runID)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Errorf(format, args...)
}
