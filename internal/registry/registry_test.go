package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	nextID int64
	ipids  map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{ipids: make(map[string]int64)}
}

func (f *fakeStore) Ipid(_ context.Context, ip string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.ipids[ip]; ok {
		return id, nil
	}
	f.nextID++
	f.ipids[ip] = f.nextID
	return f.nextID, nil
}

func (f *fakeStore) AddHdid(_ context.Context, _ string, _ int64) error { return nil }

func TestNewClientAllocatesSlotAndIdentity(t *testing.T) {
	r := New(2, newFakeStore())

	s, err := r.NewClient(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, s.SlotID)
	assert.Equal(t, UnchosenCharacter, s.CharacterID)
}

func TestNewClientFailsWhenFull(t *testing.T) {
	r := New(0, newFakeStore())

	_, err := r.NewClient(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, ErrServerFull)
}

func TestNewClientRejectsBannedIP(t *testing.T) {
	r := New(2, newFakeStore())
	r.Ban("1.2.3.4", "griefing")

	_, err := r.NewClient(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, ErrBanned)

	s, err := r.NewClient(context.Background(), "5.6.7.8")
	require.NoError(t, err)
	assert.Equal(t, 0, s.SlotID)
}

func TestUnbanAllowsReadmission(t *testing.T) {
	r := New(2, newFakeStore())
	r.Ban("1.2.3.4", "griefing")
	r.Unban("1.2.3.4")

	_, err := r.NewClient(context.Background(), "1.2.3.4")
	require.NoError(t, err)
}

func TestUpdateClientThenGetReturnsIt(t *testing.T) {
	r := New(4, newFakeStore())

	s, err := r.NewClient(context.Background(), "1.2.3.4")
	require.NoError(t, err)

	s.HardwareID = "hdid-1"
	r.UpdateClient(s)

	got, ok := r.Get(s.IdentityID)
	require.True(t, ok)
	assert.Equal(t, "hdid-1", got.HardwareID)
}

func TestReleaseFreesSlotForReuse(t *testing.T) {
	r := New(1, newFakeStore())

	s, err := r.NewClient(context.Background(), "1.2.3.4")
	require.NoError(t, err)

	r.Release(s.IdentityID)

	s2, err := r.NewClient(context.Background(), "5.6.7.8")
	require.NoError(t, err)
	assert.Equal(t, s.SlotID, s2.SlotID)
}

func TestPlayerCountExcludesSpectatorSentinel(t *testing.T) {
	r := New(4, newFakeStore())

	s1, err := r.NewClient(context.Background(), "1.1.1.1")
	require.NoError(t, err)
	s1.CharacterID = 3
	r.UpdateClient(s1)

	s2, err := r.NewClient(context.Background(), "2.2.2.2")
	require.NoError(t, err)
	s2.CharacterID = SpectatorSentinel
	r.UpdateClient(s2)

	assert.Equal(t, 1, r.PlayerCount())
}

func TestPopulationNeverExceedsPlayerLimit(t *testing.T) {
	const limit = 8
	r := New(limit, newFakeStore())

	var wg sync.WaitGroup
	successes := make(chan struct{}, limit*2)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ip := fmt.Sprintf("10.0.0.%d", n)
			if _, err := r.NewClient(context.Background(), ip); err == nil {
				successes <- struct{}{}
			}
		}(i)
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.LessOrEqual(t, count, limit)
}
