package notify_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/notify"
)

func TestBus_NotifyCallsListenersInOrder(t *testing.T) {
	bus := notify.NewBus(nil)

	var got []string
	_, err := bus.Subscribe(notify.CategoryEmergency, func(notify.Category) { got = append(got, "first") })
	require.NoError(t, err)
	_, err = bus.Subscribe(notify.CategoryEmergency, func(notify.Category) { got = append(got, "second") })
	require.NoError(t, err)
	_, err = bus.Subscribe(notify.CategoryVolunteer, func(notify.Category) { got = append(got, "other") })
	require.NoError(t, err)

	bus.Notify(notify.CategoryEmergency)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_ListenerReceivesCategory(t *testing.T) {
	bus := notify.NewBus(notify.Inline)

	var seen notify.Category
	_, err := bus.Subscribe(notify.CategoryDashboard, func(c notify.Category) { seen = c })
	require.NoError(t, err)

	bus.Notify(notify.CategoryDashboard)
	assert.Equal(t, notify.CategoryDashboard, seen)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := notify.NewBus(nil)

	var calls int
	sub, err := bus.Subscribe(notify.CategoryUser, func(notify.Category) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, bus.ListenerCount(notify.CategoryUser))

	bus.Notify(notify.CategoryUser)
	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Notify(notify.CategoryUser)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.ListenerCount(notify.CategoryUser))
}

func TestBus_UnsubscribeDuringNotify(t *testing.T) {
	bus := notify.NewBus(nil)

	var sub *notify.Subscription
	var calls, laterCalls int
	sub, err := bus.Subscribe(notify.CategorySettings, func(notify.Category) {
		calls++
		sub.Unsubscribe()
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(notify.CategorySettings, func(notify.Category) { laterCalls++ })
	require.NoError(t, err)

	bus.Notify(notify.CategorySettings)
	bus.Notify(notify.CategorySettings)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, laterCalls)
}

func TestBus_SubscribeRejectsUnknownCategory(t *testing.T) {
	bus := notify.NewBus(nil)

	_, err := bus.Subscribe("WeatherChanged", func(notify.Category) {})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestBus_PanickingListenerDoesNotStopOthers(t *testing.T) {
	bus := notify.NewBus(nil)

	var reached bool
	_, err := bus.Subscribe(notify.CategoryResource, func(notify.Category) { panic("boom") })
	require.NoError(t, err)
	_, err = bus.Subscribe(notify.CategoryResource, func(notify.Category) { reached = true })
	require.NoError(t, err)

	assert.NotPanics(t, func() { bus.Notify(notify.CategoryResource) })
	assert.True(t, reached)
}

func TestBus_ConcurrentSubscribeAndNotify(t *testing.T) {
	bus := notify.NewBus(nil)

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub, err := bus.Subscribe(notify.CategoryCommunication, func(notify.Category) { calls.Add(1) })
			if err == nil {
				sub.Unsubscribe()
			}
		}()
		go func() {
			defer wg.Done()
			bus.Notify(notify.CategoryCommunication)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.ListenerCount(notify.CategoryCommunication))
}

func TestBus_DeliversThroughDispatcher(t *testing.T) {
	dispatcher := notify.NewDispatcher(8)
	bus := notify.NewBus(dispatcher)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 3; i++ {
		n := i
		_, err := bus.Subscribe(notify.CategoryEmergency, func(notify.Category) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
		})
		require.NoError(t, err)
	}

	bus.Notify(notify.CategoryEmergency)
	bus.Notify(notify.CategoryEmergency)
	dispatcher.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, order)
}

func TestDispatcher_ListenerMayNotifyAgain(t *testing.T) {
	dispatcher := notify.NewDispatcher(1)
	defer dispatcher.Close()
	bus := notify.NewBus(dispatcher)

	var delivered atomic.Int32
	_, err := bus.Subscribe(notify.CategoryDashboard, func(notify.Category) {
		delivered.Add(1)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(notify.CategoryEmergency, func(notify.Category) {
		for i := 0; i < 10; i++ {
			bus.Notify(notify.CategoryDashboard)
		}
	})
	require.NoError(t, err)

	bus.Notify(notify.CategoryEmergency)

	assert.Eventually(t, func() bool { return delivered.Load() == 10 }, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	dispatcher := notify.NewDispatcher(1)
	dispatcher.Close()

	var ran bool
	dispatcher.Execute(func() { ran = true })
	dispatcher.Close()

	assert.False(t, ran)
}

func TestParseCategory(t *testing.T) {
	for _, c := range notify.Categories() {
		got, err := notify.ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	assert.Len(t, notify.Categories(), 7)

	_, err := notify.ParseCategory("")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}
