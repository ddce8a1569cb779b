package console

// Notifier shows short user-facing messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}
