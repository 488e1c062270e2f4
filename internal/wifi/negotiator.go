package wifi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/muurk/unitcam/internal/logging"
)

const (
	// DefaultJoinTimeout bounds an infrastructure join attempt
	DefaultJoinTimeout = 10 * time.Second

	// DefaultPollInterval is how often link status is re-checked while joining
	DefaultPollInterval = 500 * time.Millisecond
)

// Negotiator owns the radio and brings the network up.
type Negotiator struct {
	// PollInterval is the status re-check interval while joining
	PollInterval time.Duration

	// Clock drives the join deadline and polling
	Clock clock.Clock

	// Observer receives stage events (optional)
	Observer Observer

	radio Radio

	// mu serialises radio mode transitions; client and access point
	// setup must never interleave.
	mu sync.Mutex
}

// NewNegotiator creates a negotiator that takes ownership of radio.
func NewNegotiator(radio Radio) *Negotiator {
	return &Negotiator{
		PollInterval: DefaultPollInterval,
		Clock:        clock.New(),
		radio:        radio,
	}
}

// Attempt selects credentials, tries one timed join and falls back to the
// self-hosted access point when the join is impossible or times out.
// A timeout <= 0 uses DefaultJoinTimeout.
//
// The returned outcome is never in ModeNegotiating. Cancelling ctx ends the
// join wait early; the radio is still disconnected and the fallback still runs.
func (n *Negotiator) Attempt(ctx context.Context, provider ConfigProvider, timeout time.Duration) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultJoinTimeout
	}
	id := uuid.NewString()

	creds, source, ok := SelectCredentials(provider)
	if ok {
		logging.LogTransition(zapcore.InfoLevel, id, string(StageCredentials),
			fmt.Sprintf("Using %s WiFi credentials", source),
			zap.String("ssid", creds.SSID),
			zap.String("source", source.String()),
		)
		n.emit(Event{AttemptID: id, Stage: StageCredentials, Source: source, NetworkName: creds.SSID})

		if out, joined := n.join(ctx, id, creds, timeout); joined {
			return n.finish(id, out)
		}
	} else {
		logging.LogTransition(zapcore.InfoLevel, id, string(StageCredentials), "No WiFi credentials configured")
		n.emit(Event{AttemptID: id, Stage: StageCredentials, Source: SourceNone})
	}

	return n.finish(id, n.startSelfHosted(context.WithoutCancel(ctx), id))
}

// StartSelfHosted switches the radio straight to access point mode.
func (n *Negotiator) StartSelfHosted(ctx context.Context) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	return n.finish(id, n.startSelfHosted(ctx, id))
}

// Stop releases the radio: any access point is taken down, any station link
// is dropped and the radio is left off.
func (n *Negotiator) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	modeErr := n.radio.SetMode(ctx, RadioOff)
	// An idle link may refuse the disconnect.
	if err := n.radio.Disconnect(ctx); err != nil {
		logging.Debug("Disconnect during teardown returned an error", zap.Error(err))
	}
	if modeErr != nil {
		logging.Warn("Radio teardown failed", zap.Error(modeErr))
		return fmt.Errorf("failed to release radio: %w", modeErr)
	}
	logging.Info("Radio released")
	return nil
}

// finish logs the terminal summary of an attempt.
func (n *Negotiator) finish(id string, out Outcome) Outcome {
	logging.LogOutcome(id, out.Mode().String(), out.Succeeded(), out.NetworkName(), out.Address())
	return out
}

// join runs the single timed join. On any failure the radio is disconnected
// before returning.
func (n *Negotiator) join(ctx context.Context, id string, creds Credentials, timeout time.Duration) (Outcome, bool) {
	logging.LogTransition(zapcore.InfoLevel, id, string(StageJoining), "Attempting WiFi connection",
		zap.String("ssid", creds.SSID),
		zap.Duration("timeout", timeout),
	)
	n.emit(Event{AttemptID: id, Stage: StageJoining, NetworkName: creds.SSID})

	start := n.Clock.Now()
	addr, err := n.associate(ctx, creds, timeout)
	elapsed := n.Clock.Since(start)

	if err == nil {
		logging.LogTransition(zapcore.InfoLevel, id, string(StageJoined), "Connected successfully",
			zap.String("ssid", creds.SSID),
			zap.String("ip", addr),
			zap.Duration("elapsed", elapsed),
		)
		n.emit(Event{AttemptID: id, Stage: StageJoined, NetworkName: creds.SSID, Address: addr})
		return NewJoined(creds.SSID, addr), true
	}

	logging.LogTransition(zapcore.WarnLevel, id, string(StageJoinFailed), "Failed to connect",
		zap.String("ssid", creds.SSID),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	n.emit(Event{AttemptID: id, Stage: StageJoinFailed, NetworkName: creds.SSID, Err: err})

	if derr := n.radio.Disconnect(context.WithoutCancel(ctx)); derr != nil {
		logging.Warn("Disconnect after failed join returned an error",
			zap.String("attempt_id", id),
			zap.Error(derr),
		)
	}
	return Outcome{}, false
}

func (n *Negotiator) associate(ctx context.Context, creds Credentials, timeout time.Duration) (string, error) {
	if err := n.radio.SetMode(ctx, RadioStation); err != nil {
		return "", fmt.Errorf("failed to enter station mode: %w", err)
	}
	if err := n.radio.Join(ctx, creds.SSID, creds.Secret); err != nil {
		return "", fmt.Errorf("failed to begin join: %w", err)
	}
	return n.waitForJoin(ctx, timeout)
}

// waitForJoin polls the radio until it reports connected with an address,
// the timeout elapses or ctx is cancelled.
func (n *Negotiator) waitForJoin(ctx context.Context, timeout time.Duration) (string, error) {
	ctx, cancel := n.Clock.WithTimeout(ctx, timeout)
	defer cancel()

	interval := n.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := n.Clock.Ticker(interval)
	defer ticker.Stop()

	for {
		if addr, ok := n.connected(ctx); ok {
			return addr, nil
		}

		select {
		case <-ctx.Done():
			// The link may have come up during the last interval.
			if addr, ok := n.connected(context.WithoutCancel(ctx)); ok {
				return addr, nil
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", fmt.Errorf("join timed out after %s", timeout)
			}
			return "", fmt.Errorf("join cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// connected reports whether the link is up with an address assigned.
// A connected link without an address is still waiting for DHCP.
func (n *Negotiator) connected(ctx context.Context) (string, bool) {
	status, err := n.radio.Status(ctx)
	if err != nil {
		logging.Debug("Radio status check failed", zap.Error(err))
		return "", false
	}
	if status != StatusConnected {
		logging.Debug("Waiting for association", zap.String("status", status.String()))
		return "", false
	}

	addr, err := n.radio.Address(ctx)
	if err != nil || addr == "" {
		logging.Debug("Associated, waiting for address", zap.Error(err))
		return "", false
	}
	return addr, true
}

func (n *Negotiator) startSelfHosted(ctx context.Context, id string) Outcome {
	ap := DefaultAccessPoint

	logging.LogTransition(zapcore.InfoLevel, id, string(StageSelfHosting), "Starting AP mode for configuration",
		zap.String("ssid", ap.SSID),
		zap.Int("channel", ap.Channel),
		zap.Int("max_peers", ap.MaxPeers),
	)
	n.emit(Event{AttemptID: id, Stage: StageSelfHosting, NetworkName: ap.SSID})

	addr, err := n.openAccessPoint(ctx, ap)
	if err != nil {
		logging.LogTransition(zapcore.ErrorLevel, id, string(StageSelfHostFailed), "Failed to start AP mode",
			zap.Error(err),
		)
		n.emit(Event{AttemptID: id, Stage: StageSelfHostFailed, NetworkName: ap.SSID, Err: err})
		return NewSelfHostedFailure()
	}

	logging.LogTransition(zapcore.InfoLevel, id, string(StageSelfHosted), "AP mode started",
		zap.String("ssid", ap.SSID),
		zap.String("ip", addr),
	)
	n.emit(Event{AttemptID: id, Stage: StageSelfHosted, NetworkName: ap.SSID, Address: addr})
	return NewSelfHosted(addr)
}

func (n *Negotiator) openAccessPoint(ctx context.Context, ap AccessPointConfig) (string, error) {
	if err := n.radio.SetMode(ctx, RadioAccessPoint); err != nil {
		return "", fmt.Errorf("failed to enter access point mode: %w", err)
	}
	if err := n.radio.StartAccessPoint(ctx, ap); err != nil {
		return "", fmt.Errorf("failed to start access point: %w", err)
	}
	addr, err := n.radio.AccessPointAddress(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read access point address: %w", err)
	}
	if addr == "" {
		return "", errors.New("access point has no gateway address")
	}
	return addr, nil
}

func (n *Negotiator) emit(e Event) {
	if n.Observer != nil {
		n.Observer(e)
	}
}
