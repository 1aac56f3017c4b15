package timeout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSupervisorExpiresWithoutPing(t *testing.T) {
	s := NewSupervisor(100 * time.Millisecond)
	defer s.Stop()

	select {
	case <-s.Expired():
	case <-time.After(300 * time.Millisecond):
		t.Fatal("supervisor did not expire in time")
	}
}

func TestSupervisorPingKeepsAlive(t *testing.T) {
	s := NewSupervisor(150 * time.Millisecond)
	defer s.Stop()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
		s.Ping()
	}

	select {
	case <-s.Expired():
		t.Fatal("supervisor expired despite regular pings")
	default:
	}
}

func TestSupervisorPingIsNonBlockingWhenFull(t *testing.T) {
	s := NewSupervisor(time.Second)
	defer s.Stop()

	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			s.Ping()
		}
	})
}

func TestSupervisorStopPreventsExpiry(t *testing.T) {
	s := NewSupervisor(50 * time.Millisecond)
	s.Stop()

	select {
	case <-s.Expired():
		t.Fatal("expired fired after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}
