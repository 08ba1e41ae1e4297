package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Settlement pipeline logging methods

// LogOrderOpened logs when a gateway order is opened for a cart
func (l *Logger) LogOrderOpened(ctx context.Context, orderID, eventID, userID, amount string) {
	l.Logger.InfoContext(ctx,
		"Gateway Order Opened",
		slog.String("order_id", orderID),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.String("amount", amount),
	)
}

// LogPaymentVerified logs a successfully verified gateway callback
func (l *Logger) LogPaymentVerified(ctx context.Context, orderID, paymentID string) {
	l.Logger.InfoContext(ctx,
		"Payment Verified",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
	)
}

// LogPaymentVerificationFailed logs a callback whose signature did not match
func (l *Logger) LogPaymentVerificationFailed(ctx context.Context, orderID, paymentID, ip string) {
	l.Logger.WarnContext(ctx,
		"Payment Verification Failed",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
		slog.String("ip", ip),
	)
}

// LogBookingSettled logs a booking committed by the settlement transaction
func (l *Logger) LogBookingSettled(ctx context.Context, bookingID, bookingRef, eventID, userID string) {
	l.Logger.InfoContext(ctx,
		"Booking Settled",
		slog.String("booking_id", bookingID),
		slog.String("booking_ref", bookingRef),
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)
}

// LogOversoldAttempt logs a captured payment that lost the inventory race.
// Real money moved, so these always need refund reconciliation.
func (l *Logger) LogOversoldAttempt(ctx context.Context, orderID, paymentID, eventID string) {
	l.Logger.ErrorContext(ctx,
		"Oversold Attempt - refund reconciliation required",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
		slog.String("event_id", eventID),
	)
}

// LogDuplicateCallback logs a redelivered gateway callback that was rejected
func (l *Logger) LogDuplicateCallback(ctx context.Context, orderID, paymentID string) {
	l.Logger.WarnContext(ctx,
		"Duplicate Payment Callback",
		slog.String("order_id", orderID),
		slog.String("payment_id", paymentID),
	)
}

// LogTicketsIssued logs ticket issuance for a settled booking
func (l *Logger) LogTicketsIssued(ctx context.Context, bookingID string, count int) {
	l.Logger.InfoContext(ctx,
		"Tickets Issued",
		slog.String("booking_id", bookingID),
		slog.Int("count", count),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
