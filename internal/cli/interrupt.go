package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// interrupts cancels a context when the process is interrupted, which kills any
// running git command. While the console waits for input the signals get their
// default action back, so an interrupt at a prompt ends the process at once.
type interrupts struct {
	signals chan os.Signal
	cancel  context.CancelFunc
	done    chan struct{}
}

func notifyInterrupts(parent context.Context) (context.Context, *interrupts) {
	ctx, cancel := context.WithCancel(parent)
	h := &interrupts{
		signals: make(chan os.Signal, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	signal.Notify(h.signals, interruptSignals...)
	go func() {
		select {
		case <-h.signals:
			cancel()
		case <-h.done:
		}
	}()
	return ctx, h
}

// suspend restores the default signal actions until resume is called
func (h *interrupts) suspend() (resume func()) {
	signal.Reset(interruptSignals...)
	return func() {
		signal.Notify(h.signals, interruptSignals...)
	}
}

func (h *interrupts) close() {
	signal.Stop(h.signals)
	close(h.done)
	h.cancel()
}
