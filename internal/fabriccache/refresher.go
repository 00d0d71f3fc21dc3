package fabriccache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// start launches the background refresher goroutine: it performs one
// synchronous refresh to warm the cache before returning, then hands the
// rest of its life to a goroutine the caller never blocks on, so callers
// never block waiting on the refresh loop itself.
func (c *Cache) start(ctx context.Context, fetcher Fetcher, log *logrus.Entry) error {
	if err := c.refreshOnce(ctx, fetcher, log); err != nil && log != nil {
		log.WithError(err).Debug("initial fabric cache warm-up failed, continuing")
	}

	c.wg.Add(1)
	go c.refreshLoop(ctx, fetcher, log)
	return nil
}

// stopRefresher requests the refresher to exit before its next refresh and blocks
// until it has.
func (c *Cache) stopRefresher() {
	done := make(chan struct{})
	c.stop <- done
	<-done
	c.wg.Wait()
}

func (c *Cache) refreshLoop(ctx context.Context, fetcher Fetcher, log *logrus.Entry) {
	defer c.wg.Done()

	ttl := DefaultTimeToLive
	for {
		select {
		case done := <-c.stop:
			close(done)
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := fetcher.Connect(ctx); err != nil {
			if log != nil {
				log.WithError(err).Debug("fabric cache could not reach coordinator")
			}
			fetcher.Disconnect()
			if !sleepOrStop(ctx, c.stop, effectiveTTL(ttl)) {
				return
			}
			continue
		}

		result, err := fetcher.Fetch(ctx)
		if err != nil {
			if log != nil {
				log.WithError(err).Debug("fabric cache refresh failed, keeping previous snapshot")
			}
		} else {
			c.swap(result.Groups, result.Shards)
			ttl = result.TTL
		}

		if !sleepOrStop(ctx, c.stop, effectiveTTL(ttl)) {
			return
		}
	}
}

func (c *Cache) refreshOnce(ctx context.Context, fetcher Fetcher, log *logrus.Entry) error {
	if err := fetcher.Connect(ctx); err != nil {
		return err
	}
	result, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	c.swap(result.Groups, result.Shards)
	return nil
}

func effectiveTTL(ttl int) time.Duration {
	if ttl <= 0 {
		ttl = DefaultTimeToLive
	}
	return time.Duration(ttl) * time.Second
}

// sleepOrStop sleeps for d, but wakes early — returning false — if a stop
// request or context cancellation arrives first.
func sleepOrStop(ctx context.Context, stop chan chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case done := <-stop:
		close(done)
		return false
	case <-ctx.Done():
		return false
	}
}
