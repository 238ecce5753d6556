package logging

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger global do processo. Começa com uma configuração padrão para que
// pacotes possam logar mesmo antes do main chamar Init (útil nos testes).
var logger = log.New(os.Stdout)

// Init configura o logger global com o nome da aplicação e o nível desejado.
// Níveis aceitos: debug, info, warn, error. Qualquer outro valor cai em info.
func Init(appName string, level string) {
	logger = log.New(os.Stdout)
	logger.SetPrefix(appName)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat(time.DateTime)

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

func Debug(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

func Error(format string, args ...any) {
	logger.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	logger.Fatalf(format, args...)
}
