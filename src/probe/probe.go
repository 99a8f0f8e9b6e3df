package probe

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type State string

const (
	StateUnknown      State = "unknown"
	StateConnected    State = "connected"
	StateReadOnly     State = "read_only"
	StateDisconnected State = "disconnected"
)

const DefaultInterval = 30 * time.Second

// Target is a remote store that can be probed for read and write access.
type Target interface {
	Name() string
	ProbeRead(ctx context.Context) error
	ProbeWrite(ctx context.Context) error
}

type Status struct {
	Backend   string    `json:"backend"`
	State     State     `json:"state"`
	CanRead   bool      `json:"canRead"`
	CanWrite  bool      `json:"canWrite"`
	LatencyMs int64     `json:"latencyMs"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

func (s Status) Text() string {
	switch s.State {
	case StateConnected:
		return fmt.Sprintf("🟢 %s: Connected (%dms)", s.Backend, s.LatencyMs)
	case StateReadOnly:
		return fmt.Sprintf("🟡 %s: Read-only access", s.Backend)
	case StateDisconnected:
		return fmt.Sprintf("🔴 %s: Disconnected (%s)", s.Backend, s.Error)
	}
	return fmt.Sprintf("⚪ %s: Not checked", s.Backend)
}

// Prober checks a Target and caches the latest result. Probe failures are
// reported in the Status, never returned.
type Prober struct {
	target  Target
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	latest Status
}

func New(target Target) *Prober {
	return &Prober{
		target:  target,
		timeout: 10 * time.Second,
		now:     time.Now,
		latest:  Status{Backend: target.Name(), State: StateUnknown},
	}
}

func (p *Prober) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.now()
	st := Status{Backend: p.target.Name()}
	if err := p.target.ProbeRead(ctx); err != nil {
		st.State = StateDisconnected
		st.Error = err.Error()
	} else if err := p.target.ProbeWrite(ctx); err != nil {
		st.State = StateReadOnly
		st.CanRead = true
		st.Error = err.Error()
	} else {
		st.State = StateConnected
		st.CanRead = true
		st.CanWrite = true
	}
	end := p.now()
	st.LatencyMs = end.Sub(start).Milliseconds()
	st.CheckedAt = end

	p.mu.Lock()
	prev := p.latest.State
	p.latest = st
	p.mu.Unlock()
	if prev != st.State {
		log.Printf("[Probe] %s\n", st.Text())
	}
	return st
}

func (p *Prober) Latest() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// RemoteWritable is true until a probe has shown the remote cannot take writes.
func (p *Prober) RemoteWritable() bool {
	s := p.Latest().State
	return s == StateUnknown || s == StateConnected
}

// Schedule registers the probe as an interval job on s.
func (p *Prober) Schedule(s gocron.Scheduler, interval time.Duration) (gocron.Job, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			p.Check(context.Background())
		}),
		gocron.WithName(fmt.Sprintf("probe-%s", p.target.Name())),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}
