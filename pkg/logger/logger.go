package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opzioni per il logger.
type Config struct {
	Env      string // development -> console leggibile; production -> JSON
	Level    string // trace, debug, info, warn, error
	Servizio string // nome del servizio, riportato su ogni riga
}

// Logger wrapper su zerolog per iniezione e coerenza.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger strutturato. In development usa output leggibile; in
// production JSON con il nome del servizio su ogni riga.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}

	l := NewConWriter(cfg, w)

	// Redirige il logger globale di zerolog per le librerie che lo usano
	log.Logger = l.zl

	return l
}

// NewConWriter crea un logger sul writer indicato, senza toccare il logger
// globale. Usato da New e nei test.
func NewConWriter(cfg Config, w io.Writer) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Servizio != "" {
		ctx = ctx.Str("servizio", cfg.Servizio)
	}
	return &Logger{zl: ctx.Logger()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// PerTenant restituisce un sublogger con il codice tenant su ogni riga: i
// casi d'uso lo usano all'ingresso di ogni operazione del registro.
func (l *Logger) PerTenant(codice string) *Logger {
	return &Logger{zl: l.zl.With().Str("tenant", codice).Logger()}
}

// Trace, Debug, Info, Warn, Error delegati a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campi fissi.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog restituisce il logger interno quando serve l'API diretta.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
