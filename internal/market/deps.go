package market

// Severity grades a system message for the UI.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// Messenger is the host game's fire-and-forget sink for user-facing
// trade confirmations and failures.
type Messenger interface {
	AddSystemMessage(text string, severity Severity)
}

// NopMessenger discards all messages. Used when the host supplies no sink.
type NopMessenger struct{}

func (NopMessenger) AddSystemMessage(string, Severity) {}
