package daemon_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nole/internal/adapters/daemon"
)

func TestLifecycle_IdleShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		select {
		case <-lc.Done():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("expected idle shutdown")
		}
	})
}

func TestLifecycle_TouchDefersShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		time.Sleep(60 * time.Millisecond)
		lc.Touch()

		select {
		case <-lc.Done():
			t.Fatal("shutdown triggered despite activity")
		case <-time.After(60 * time.Millisecond):
		}

		assert.Equal(t, 40*time.Millisecond, lc.IdleRemaining())
		assert.Equal(t, 120*time.Millisecond, lc.Uptime())
		lc.Shutdown()
	})
}

func TestLifecycle_NoTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(0)

		select {
		case <-lc.Done():
			t.Fatal("zero timeout must never shut down on its own")
		case <-time.After(time.Hour):
		}
		lc.Touch()
		assert.Zero(t, lc.IdleRemaining())
	})
}

func TestLifecycle_LastActivity(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)
		initial := lc.LastActivity()

		time.Sleep(10 * time.Millisecond)
		lc.Touch()

		assert.Equal(t, 10*time.Millisecond, lc.LastActivity().Sub(initial))
		lc.Shutdown()
	})
}

func TestLifecycle_ShutdownIdempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(time.Hour)

		lc.Shutdown()
		lc.Shutdown()

		select {
		case <-lc.Done():
		default:
			t.Fatal("expected shutdown")
		}
	})
}
