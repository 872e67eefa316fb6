package module

// Notifier wakes up a worker routine when new work arrives. Notifications are coalesced:
// any number of Notify calls before the worker reads the channel result in a single wakeup,
// and Notify never blocks. Copies of a Notifier share the same state.
type Notifier struct {
	notifier chan struct{}
}

func NewNotifier() Notifier {
	return Notifier{notifier: make(chan struct{}, 1)}
}

// Notify signals pending work. It is a no-op if a notification is already pending.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns the channel the worker waits on.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
