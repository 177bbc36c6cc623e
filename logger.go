package xsrfclient

import (
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

const (
	logFileName = "xsrfclient.log"
	logMaxAge   = 7 * 24 * time.Hour
	logRotation = 24 * time.Hour
)

func NewLogger(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if cfg.LogDir == "" {
		return logger, nil
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}
	path, err := filepath.Abs(filepath.Join(cfg.LogDir, logFileName))
	if err != nil {
		return nil, err
	}
	writer, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(logMaxAge),
		rotatelogs.WithRotationTime(logRotation),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{}))
	return logger, nil
}
