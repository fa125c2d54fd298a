package logger

import "github.com/ThreeDotsLabs/watermill"

// WatermillAdapter routes watermill's internal logging through ILogger.
type WatermillAdapter struct {
	logger ILogger
	fields watermill.LogFields
}

func NewWatermillAdapter(l ILogger) *WatermillAdapter {
	return &WatermillAdapter{logger: l}
}

func (a *WatermillAdapter) details(fields watermill.LogFields) map[string]interface{} {
	merged := make(map[string]interface{}, len(a.fields)+len(fields))
	for k, v := range a.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	details := a.details(fields)
	if err != nil {
		details["error"] = err.Error()
	}
	a.logger.Error("EVENT_BUS", msg, details)
}

func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info("EVENT_BUS", msg, a.details(fields))
}

// Debug and Trace are both sent to Debug; watermill is chatty at these levels.
func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug("EVENT_BUS", msg, a.details(fields))
}

func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug("EVENT_BUS", msg, a.details(fields))
}

func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{logger: a.logger, fields: a.details(fields)}
}
