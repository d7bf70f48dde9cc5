package ugraph

// Scheduler runs callbacks on the next frame of the host.
type Scheduler interface {
	ScheduleFrame(func())
}

// SchedulerFunc adapts a function to a Scheduler.
type SchedulerFunc func(func())

func (f SchedulerFunc) ScheduleFrame(frame func()) { f(frame) }

// Immediate runs frames as soon as they are scheduled.
var Immediate = SchedulerFunc(func(frame func()) { frame() })

// ManualScheduler queues frames until Flush is called. It suits tests and
// headless rendering.
type ManualScheduler struct {
	queue []func()
}

func (m *ManualScheduler) ScheduleFrame(frame func()) {
	m.queue = append(m.queue, frame)
}

// Pending returns the number of queued frames.
func (m *ManualScheduler) Pending() int { return len(m.queue) }

// Flush runs the queued frames and returns how many ran. Frames scheduled
// while flushing wait for the next Flush.
func (m *ManualScheduler) Flush() int {
	queue := m.queue
	m.queue = nil
	for _, frame := range queue {
		frame()
	}
	return len(queue)
}
