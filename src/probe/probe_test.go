package probe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type targetStub struct {
	readErr  error
	writeErr error
	reads    atomic.Int32
}

func (t *targetStub) Name() string { return "Firebase" }

func (t *targetStub) ProbeRead(context.Context) error {
	t.reads.Add(1)
	return t.readErr
}

func (t *targetStub) ProbeWrite(context.Context) error { return t.writeErr }

type ProbeSuite struct {
	suite.Suite
	target *targetStub
	prober *Prober
}

func (s *ProbeSuite) SetupTest() {
	s.target = &targetStub{}
	s.prober = New(s.target)
	tick := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.prober.now = func() time.Time {
		tick = tick.Add(21 * time.Millisecond)
		return tick
	}
}

func (s *ProbeSuite) TestUnknownBeforeFirstCheck() {
	st := s.prober.Latest()
	assert.Equal(s.T(), StateUnknown, st.State)
	assert.True(s.T(), s.prober.RemoteWritable())
}

func (s *ProbeSuite) TestConnected() {
	st := s.prober.Check(context.Background())
	assert.Equal(s.T(), StateConnected, st.State)
	assert.True(s.T(), st.CanRead)
	assert.True(s.T(), st.CanWrite)
	assert.Equal(s.T(), int64(21), st.LatencyMs)
	assert.Equal(s.T(), "🟢 Firebase: Connected (21ms)", st.Text())
	assert.True(s.T(), s.prober.RemoteWritable())
	assert.Equal(s.T(), st, s.prober.Latest())
}

func (s *ProbeSuite) TestReadOnly() {
	s.target.writeErr = errors.New("Missing or insufficient permissions.")
	st := s.prober.Check(context.Background())
	assert.Equal(s.T(), StateReadOnly, st.State)
	assert.True(s.T(), st.CanRead)
	assert.False(s.T(), st.CanWrite)
	assert.Equal(s.T(), "🟡 Firebase: Read-only access", st.Text())
	assert.False(s.T(), s.prober.RemoteWritable())
}

func (s *ProbeSuite) TestDisconnected() {
	s.target.readErr = errors.New("unavailable")
	st := s.prober.Check(context.Background())
	assert.Equal(s.T(), StateDisconnected, st.State)
	assert.False(s.T(), st.CanRead)
	assert.Equal(s.T(), "🔴 Firebase: Disconnected (unavailable)", st.Text())
	assert.False(s.T(), s.prober.RemoteWritable())

	s.target.readErr = nil
	st = s.prober.Check(context.Background())
	assert.Equal(s.T(), StateConnected, st.State)
	assert.True(s.T(), s.prober.RemoteWritable())
}

func (s *ProbeSuite) TestSchedule() {
	sched, err := gocron.NewScheduler()
	require.NoError(s.T(), err)
	defer sched.Shutdown()

	job, err := s.prober.Schedule(sched, 50*time.Millisecond)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "probe-Firebase", job.Name())

	sched.Start()
	assert.Eventually(s.T(), func() bool {
		return s.target.reads.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(s.T(), StateConnected, s.prober.Latest().State)
}

func TestProbe(t *testing.T) {
	suite.Run(t, new(ProbeSuite))
}
