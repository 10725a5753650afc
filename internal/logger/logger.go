package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New construit le logger de l'application : JSON en prod, texte en dev
func New(level, env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(parseLevel(level))

	if strings.EqualFold(env, "prod") || strings.EqualFold(env, "production") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func parseLevel(lvl string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(lvl))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
