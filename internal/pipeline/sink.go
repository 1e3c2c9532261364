package pipeline

import "sync"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the latest event per key, in first-seen key order.
func (r *Recorder) Last() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := make(map[string]int)
	var out []Event
	for _, evt := range r.events {
		if i, ok := idx[evt.Key]; ok {
			out[i] = evt
			continue
		}
		idx[evt.Key] = len(out)
		out = append(out, evt)
	}
	return out
}

// Emit sends evt to sink when one is set.
func Emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
