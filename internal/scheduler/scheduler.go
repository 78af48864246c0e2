package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx is done.
// A tick that fires while the previous run is still going is skipped; a
// slow IMAP scan must not pile up behind itself.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	running := make(chan struct{}, 1)
	launch := func() {
		select {
		case running <- struct{}{}:
		default:
			log.Printf("[%s] previous run still in progress, skipping tick", name)
			return
		}
		go func() {
			defer func() { <-running }()
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}()
	}

	launch()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			launch()
		}
	}
}
