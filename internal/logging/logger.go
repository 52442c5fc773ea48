package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel определяет уровни логирования
type LogLevel int32

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из строки конфигурации (регистр не важен)
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("неизвестный уровень логирования %q", s)
	}
}

// Logger пишет сообщения в консоль и, если задан файл, в файл.
// Уровни консоли и файла задаются независимо.
type Logger struct {
	component       string
	consoleLogger   *log.Logger
	fileLogger      *log.Logger
	file            *os.File
	ownsFile        bool
	minConsoleLevel atomic.Int32
	minFileLevel    atomic.Int32
}

// Options - общие настройки логирования
type Options struct {
	ConsoleLevel LogLevel // Минимальный уровень для консоли
	Dir          string   // Каталог для файлов логов (пусто - без файла)
}

var (
	optionsMu sync.RWMutex
	options   = Options{ConsoleLevel: INFO}

	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// Configure задаёт общие настройки. Вызывается до InitDefaultLogger.
// Уровень консоли применяется и к уже созданным логгерам компонентов.
func Configure(opts Options) {
	optionsMu.Lock()
	options = opts
	optionsMu.Unlock()

	GetLoggerManager().setConsoleLevel(opts.ConsoleLevel)
}

func currentOptions() Options {
	optionsMu.RLock()
	defer optionsMu.RUnlock()
	return options
}

// NewLogger создаёт логгер компонента. Если уже инициализирован логгер по умолчанию
// с файлом, логгер компонента пишет в тот же файл.
func NewLogger(component string) (*Logger, error) {
	opts := currentOptions()

	l := &Logger{
		component:     component,
		consoleLogger: log.New(os.Stdout, "", log.LstdFlags),
	}
	l.minConsoleLevel.Store(int32(opts.ConsoleLevel))
	l.minFileLevel.Store(int32(TRACE))

	defaultMu.RLock()
	if defaultLogger != nil && defaultLogger.fileLogger != nil {
		l.fileLogger = defaultLogger.fileLogger
	}
	defaultMu.RUnlock()

	return l, nil
}

// newFileLogger создаёт логгер с собственным файлом в каталоге dir
func newFileLogger(name, dir string) (*Logger, error) {
	l, err := NewLogger(name)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	l.file = file
	l.ownsFile = true
	l.fileLogger = log.New(file, "", log.LstdFlags)
	return l, nil
}

// InitDefaultLogger инициализирует логгер по умолчанию для пакетных функций
func InitDefaultLogger(name string) error {
	l, err := newFileLogger(name, currentOptions().Dir)
	if err != nil {
		return err
	}

	defaultMu.Lock()
	old := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// CloseDefaultLogger закрывает логгер по умолчанию и логгеры компонентов
func CloseDefaultLogger() {
	GetLoggerManager().CloseAll()

	defaultMu.Lock()
	l := defaultLogger
	defaultLogger = nil
	defaultMu.Unlock()

	if l != nil {
		l.Close()
	}
}

// fallbackLogger используется, пока логгер по умолчанию не инициализирован
var fallbackLogger = sync.OnceValue(func() *Logger {
	l, _ := NewLogger("")
	return l
})

func getDefault() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()

	if l == nil {
		return fallbackLogger()
	}
	return l
}

// Close закрывает файл логгера, если логгер им владеет
func (l *Logger) Close() error {
	if l.ownsFile && l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetLevels задаёт минимальные уровни консоли и файла
func (l *Logger) SetLevels(consoleLevel, fileLevel LogLevel) {
	l.minConsoleLevel.Store(int32(consoleLevel))
	l.minFileLevel.Store(int32(fileLevel))
}

// Enabled сообщает, будет ли сообщение уровня level куда-либо записано
func (l *Logger) Enabled(level LogLevel) bool {
	if level >= LogLevel(l.minConsoleLevel.Load()) {
		return true
	}
	return l.fileLogger != nil && level >= LogLevel(l.minFileLevel.Load())
}

func (l *Logger) logMessage(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	var message string
	if l.component != "" {
		message = fmt.Sprintf("[%s] [%s] %s", level.String(), l.component, fmt.Sprintf(format, args...))
	} else {
		message = fmt.Sprintf("[%s] %s", level.String(), fmt.Sprintf(format, args...))
	}

	if l.fileLogger != nil && level >= LogLevel(l.minFileLevel.Load()) {
		l.fileLogger.Println(message)
	}
	if level >= LogLevel(l.minConsoleLevel.Load()) {
		l.consoleLogger.Println(message)
	}
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) {
	l.logMessage(TRACE, format, args...)
}

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logMessage(DEBUG, format, args...)
}

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) {
	l.logMessage(INFO, format, args...)
}

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logMessage(WARN, format, args...)
}

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) {
	l.logMessage(ERROR, format, args...)
}

// Trace логирует сообщение уровня TRACE через логгер по умолчанию
func Trace(format string, args ...interface{}) {
	getDefault().logMessage(TRACE, format, args...)
}

// Debug логирует сообщение уровня DEBUG через логгер по умолчанию
func Debug(format string, args ...interface{}) {
	getDefault().logMessage(DEBUG, format, args...)
}

// Info логирует сообщение уровня INFO через логгер по умолчанию
func Info(format string, args ...interface{}) {
	getDefault().logMessage(INFO, format, args...)
}

// Warn логирует сообщение уровня WARN через логгер по умолчанию
func Warn(format string, args ...interface{}) {
	getDefault().logMessage(WARN, format, args...)
}

// Error логирует сообщение уровня ERROR через логгер по умолчанию
func Error(format string, args ...interface{}) {
	getDefault().logMessage(ERROR, format, args...)
}
