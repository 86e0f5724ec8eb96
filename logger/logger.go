package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	log    *logrus.Logger
	active bool
}

var SanitizerLogger Logger

func InitializeLogger(active bool, logfilename string) {
	if !active {
		SanitizerLogger = Logger{active: false}
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)

	if logfilename != "" {
		file, err := os.OpenFile(logfilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			log.Fatal(err)
		}
		log.SetOutput(io.MultiWriter(os.Stderr, file))
	}

	SanitizerLogger = Logger{log: log, active: active}
}

func (logger Logger) Info(msg string) {
	if logger.active {
		logger.log.Info(msg)
	}
}

func (logger Logger) Warning(msg string) {
	if logger.active {
		logger.log.Warning(msg)
	}
}

func (logger Logger) Error(msg any) {
	if logger.active {
		logger.log.Error(msg)
	}
}
