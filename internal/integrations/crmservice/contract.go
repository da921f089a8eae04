package crmservice

// Logger интерфейс логгера, используемый клиентом
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}
