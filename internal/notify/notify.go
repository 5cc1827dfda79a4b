package notify

// DefaultTitle heads every push the bot sends.
const DefaultTitle = "Trading Bot Alert"

// Notifier delivers short human-readable alerts about bot activity.
type Notifier interface {
	Send(title, body string) error
}

// Nop discards every message; it stands in when no push token is configured.
type Nop struct{}

func (Nop) Send(title, body string) error { return nil }
