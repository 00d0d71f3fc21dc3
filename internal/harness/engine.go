// Package harness implements the Harness Lifecycle Engine: the state
// machine that loads a configured set of plugins, resolves their
// dependency order, initializes and starts them, waits for shutdown, then
// deinitializes and releases them in reverse order.
//
// The worker cancellation shape — a context carried into each plugin's
// start hook, a WaitGroup the engine blocks on during Wait, and a single
// shutdown signal fanned out to every worker rather than one stop channel
// apiece — is grounded on the harness's own polling-loop helper, which
// cancels its background goroutine by canceling the context it was handed
// and then waiting on a WaitGroup for it to actually exit.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mysqlrouter/harness/internal/config"
	"github.com/mysqlrouter/harness/internal/depgraph"
	"github.com/mysqlrouter/harness/internal/descriptor"
)

// stopGracePeriod bounds how long Run waits for worker goroutines to exit
// after cancellation before giving up on them and proceeding to deinit
// anyway. A worker that never observes its context is a plugin bug, not a
// reason to hang the whole process.
const stopGracePeriod = 10 * time.Second

// EngineState is the lifecycle engine's own coarse-grained state, distinct
// from any individual plugin's PluginState.
type EngineState string

const (
	EngineLoading      EngineState = "LOADING"
	EngineInitializing EngineState = "INITIALIZING"
	EngineRunning      EngineState = "RUNNING"
	EngineStopping     EngineState = "STOPPING"
	EngineStopped      EngineState = "STOPPED"
)

// Loader is the subset of *pluginloader.Loader the engine depends on, kept
// as an interface so tests can substitute an in-memory set of descriptors
// without touching the filesystem or Go's plugin package.
type Loader interface {
	Load(name string) (desc descriptor.Descriptor, newerMinor bool, err error)
}

// InitFailedError reports a non-zero result from a plugin's init hook.
type InitFailedError struct {
	Plugin string
	Err    error
}

func (e *InitFailedError) Error() string {
	return fmt.Sprintf("init failed for plugin %s: %v", e.Plugin, e.Err)
}

func (e *InitFailedError) Unwrap() error { return e.Err }

// DeinitFailedError reports a non-zero result from a plugin's deinit hook.
// Unlike InitFailedError, it is recorded, not propagated — deinit keeps
// going through every remaining plugin regardless.
type DeinitFailedError struct {
	Plugin string
	Err    error
}

func (e *DeinitFailedError) Error() string {
	return fmt.Sprintf("deinit failed for plugin %s: %v", e.Plugin, e.Err)
}

// WorkerPanickedError reports a plugin worker goroutine that panicked
// instead of returning an error.
type WorkerPanickedError struct {
	Plugin string
	Value  interface{}
}

func (e *WorkerPanickedError) Error() string {
	return fmt.Sprintf("worker for plugin %s panicked: %v", e.Plugin, e.Value)
}

// Engine runs the full plugin lifecycle over one configuration.
type Engine struct {
	store  *config.Store
	loader Loader
	info   *descriptor.HarnessInfo
	log    *logrus.Entry

	mtx       sync.Mutex
	status    map[string]Status
	listeners map[string]StatusListener

	descs map[string]descriptor.Descriptor
	order []string

	wg     sync.WaitGroup
	cancel context.CancelFunc

	// stopGrace bounds the wait for workers to exit after cancellation;
	// tests shrink it so a deliberately stuck worker doesn't slow the
	// suite down.
	stopGrace time.Duration

	engineState EngineState
}

// New creates an Engine bound to store, which supplies the plugin
// directories and the configuration every plugin hook will read from.
func New(store *config.Store, loader Loader, log *logrus.Entry) *Engine {
	return &Engine{
		store:     store,
		loader:    loader,
		info:      descriptor.NewHarnessInfo(store),
		log:       log,
		status:    map[string]Status{},
		listeners: map[string]StatusListener{},
		descs:     map[string]descriptor.Descriptor{},
		stopGrace: stopGracePeriod,
	}
}

// State returns the engine's own coarse-grained lifecycle state.
func (e *Engine) State() EngineState {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.engineState
}

func (e *Engine) setEngineState(s EngineState) {
	e.mtx.Lock()
	e.engineState = s
	e.mtx.Unlock()
}

// Run drives the full lifecycle for the given set of plugin names, in the
// order they appeared in the configuration: Load, Resolve, Initialize,
// Start, Wait (for either every worker to return or a terminating signal),
// Stop (cancel and wait up to stopGracePeriod for workers to exit, giving
// up on any still running past it), Deinit, Release. It returns once every
// step has completed; the returned error is non-nil iff some callback that
// ran returned failure or a worker panicked.
func (e *Engine) Run(ctx context.Context, pluginNames []string) error {
	e.setEngineState(EngineLoading)
	descs, err := e.load(pluginNames)
	if err != nil {
		return err
	}

	order, err := depgraph.Resolve(descs)
	if err != nil {
		return err
	}
	e.order = order

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	defer cancel()

	e.setEngineState(EngineInitializing)
	initialized, initErr := e.initializeAll(order)
	if initErr != nil {
		var deinitErrs []error
		e.deinitAll(initialized, &deinitErrs)
		e.setEngineState(EngineStopped)
		return errors.Join(append([]error{initErr}, deinitErrs...)...)
	}

	e.setEngineState(EngineRunning)
	e.startAll(runCtx, initialized)

	e.waitForShutdown(runCtx)

	e.setEngineState(EngineStopping)
	cancel()
	if stuck := e.waitForWorkers(e.stopGrace); stuck && e.log != nil {
		e.log.Warn("one or more plugin workers did not exit within the shutdown grace period, proceeding to deinit anyway")
	}

	// A worker that returned an error or panicked is left in StateFailed by
	// runWorker; collect those before deinit overwrites the statuses.
	var runErrs []error
	statuses := e.Status()
	for _, name := range initialized {
		if st := statuses[name]; st.State == StateFailed && st.Err != nil {
			runErrs = append(runErrs, st.Err)
		}
	}

	var deinitErrs []error
	e.deinitAll(initialized, &deinitErrs)
	e.setEngineState(EngineStopped)

	return errors.Join(append(runErrs, deinitErrs...)...)
}

func (e *Engine) load(pluginNames []string) ([]descriptor.Descriptor, error) {
	descs := make([]descriptor.Descriptor, 0, len(pluginNames))
	for _, name := range pluginNames {
		e.setStatus(name, StateDeclared, nil)

		desc, newerMinor, err := e.loader.Load(name)
		if err != nil {
			e.setStatus(name, StateFailed, err)
			return nil, err
		}
		if newerMinor && e.log != nil {
			e.log.WithField("plugin", name).Warn("plugin built against a newer harness ABI minor version")
		}

		e.descs[name] = desc
		descs = append(descs, desc)
		e.setStatus(name, StateLoaded, nil)
	}
	return descs, nil
}

// initializeAll calls init on every plugin in order, stopping at the first
// failure. It returns the prefix of order that was successfully
// initialized (the failing plugin itself is not included, so the caller
// deinitializes only the plugins that preceded it) together with an error
// when one occurred.
func (e *Engine) initializeAll(order []string) (initialized []string, err error) {
	for _, name := range order {
		desc := e.descs[name]
		if desc.Init != nil {
			if hookErr := desc.Init(e.info); hookErr != nil {
				initTotal.WithLabelValues(name, "failure").Inc()
				e.setStatus(name, StateFailed, hookErr)
				return initialized, &InitFailedError{Plugin: name, Err: hookErr}
			}
		}
		initTotal.WithLabelValues(name, "success").Inc()
		e.setStatus(name, StateInitialized, nil)
		initialized = append(initialized, name)
	}
	return initialized, nil
}

func (e *Engine) startAll(ctx context.Context, initialized []string) {
	for _, name := range initialized {
		desc := e.descs[name]
		if desc.Start == nil {
			continue
		}
		e.wg.Add(1)
		e.setStatus(name, StateStarted, nil)
		go e.runWorker(ctx, name, desc)
	}
}

func (e *Engine) runWorker(ctx context.Context, name string, desc descriptor.Descriptor) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			workerPanicTotal.WithLabelValues(name).Inc()
			e.setStatus(name, StateFailed, &WorkerPanickedError{Plugin: name, Value: r})
		}
	}()

	if err := desc.Start(ctx, e.info); err != nil {
		e.setStatus(name, StateFailed, err)
		return
	}
	e.setStatus(name, StateStopped, nil)
}

// waitForShutdown blocks until every worker has returned or a terminating
// signal arrives. The signal handler does no work beyond waking this call;
// everything else — canceling the context, joining workers — happens in
// Run after waitForShutdown returns.
func (e *Engine) waitForShutdown(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	workersDone := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(workersDone)
	}()

	select {
	case <-workersDone:
	case <-sigCh:
		if e.log != nil {
			e.log.Info("shutdown signal received")
		}
	case <-ctx.Done():
	}
}

// waitForWorkers blocks on e.wg up to grace, returning true iff at least
// one worker had not exited by the deadline. The goroutine joining e.wg
// leaks past the deadline in that case, but since every worker is already
// being asked to exit via the canceled context, it is expected to unblock
// on its own eventually; the engine does not wait on it any further.
func (e *Engine) waitForWorkers(grace time.Duration) (stuck bool) {
	workersDone := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(workersDone)
	}()

	select {
	case <-workersDone:
		return false
	case <-time.After(grace):
		return true
	}
}

// deinitAll calls deinit on every initialized plugin in the reverse of its
// init order. Errors are collected into errsOut (when provided) but never
// abort the loop, per the propagation policy: a deinit failure is
// recorded, not fatal.
func (e *Engine) deinitAll(initialized []string, errsOut ...*[]error) {
	for i := len(initialized) - 1; i >= 0; i-- {
		name := initialized[i]
		desc := e.descs[name]
		if desc.Deinit != nil {
			if err := desc.Deinit(e.info); err != nil {
				deinitTotal.WithLabelValues(name, "failure").Inc()
				wrapped := &DeinitFailedError{Plugin: name, Err: err}
				e.setStatus(name, StateFailed, wrapped)
				if len(errsOut) > 0 {
					*errsOut[0] = append(*errsOut[0], wrapped)
				}
				continue
			}
		}
		deinitTotal.WithLabelValues(name, "success").Inc()
		e.setStatus(name, StateDeinitDone, nil)
	}
}
