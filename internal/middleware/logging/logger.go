package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

// Logger - тонкая обертка над logrus, помечающая записи именем компонента.
type Logger struct {
	config *Config
	core   *logrus.Logger
	file   *os.File
	prefix string
}

func NewLogger(cfg *Config, prefix string) *Logger {
	l := &Logger{
		config: cfg,
		prefix: prefix,
	}

	core := logrus.New()
	core.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	core.SetLevel(level)

	var output io.Writer = os.Stdout
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err == nil {
			logFile := filepath.Join(cfg.LogsDir, time.Now().Format("2006-01-02")+".log")
			if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				l.file = file
				output = io.MultiWriter(os.Stdout, file)
			}
		}
	}
	core.SetOutput(output)
	l.core = core

	if cfg.Enabled && cfg.SavingDays > 0 {
		go l.cleanOldLogs()
	}

	return l
}

func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "." + prefix
	}

	return &Logger{
		config: l.config,
		core:   l.core,
		file:   l.file,
		prefix: newPrefix,
	}
}

func (l *Logger) cleanOldLogs() {
	for range time.Tick(24 * time.Hour) {
		files, err := os.ReadDir(l.config.LogsDir)
		if err != nil {
			l.Error("Failed to read logs directory", "error", err)
			continue
		}

		cutoff := time.Now().AddDate(0, 0, int(-l.config.SavingDays))
		for _, file := range files {
			if info, err := file.Info(); err == nil && !file.IsDir() && info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(l.config.LogsDir, file.Name())); err != nil {
					l.Error("Failed to delete old log file", "file", file.Name(), "error", err)
				}
			}
		}
	}
}

// entry собирает пары ключ-значение в logrus.Fields. Ключ без значения
// получает заглушку "?".
func (l *Logger) entry(pairs ...interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	if l.prefix != "" {
		fields["component"] = l.prefix
	}
	for i := 0; i < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		if i+1 < len(pairs) {
			fields[key] = pairs[i+1]
		} else {
			fields[key] = "?"
		}
	}
	return l.core.WithFields(fields)
}

func (l *Logger) ShouldLog(level string) bool {
	if !l.config.Enabled {
		return false
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return false
	}

	return l.core.IsLevelEnabled(parsed)
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.entry(fields...).Debug(msg) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.entry(fields...).Info(msg) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.entry(fields...).Warn(msg) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.entry(fields...).Error(msg) }

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
