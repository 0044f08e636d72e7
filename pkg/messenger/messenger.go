package messenger

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tang-go/tang/pkg/log"
	"github.com/tang-go/tang/pkg/tangerr"
	"github.com/tang-go/tang/pkg/wire"
)

// Config configures a Messenger.
type Config struct {
	// Logger receives messenger-layer attempt events (one per send,
	// timeout, or received reply). Defaults to log.NoopLogger if nil.
	Logger log.Logger
}

// Messenger races request messages across every address a (host,
// service) pair resolves to, making up to three send attempts per
// address, and returns the first decodable reply. A Messenger
// holds no state between calls; every Exchange call owns its own
// sockets.
type Messenger struct {
	cfg Config
}

// New creates a Messenger with the given configuration.
func New(cfg Config) *Messenger {
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	return &Messenger{cfg: cfg}
}

// Exchange resolves host/service once, then races each request in
// requests (in order) across the resolved addresses, returning replies
// in the same order as the requests. deadline bounds the wall time of
// the whole call; if it is exceeded mid-list, the remaining requests
// fail with tangerr.ErrTransport.
func (m *Messenger) Exchange(ctx context.Context, host, service string, requests []*wire.Message, deadline time.Time) ([]*wire.Message, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	addrs, err := resolveAddrs(ctx, host, service)
	if err != nil {
		return nil, err
	}

	corrID := uuid.New().String()
	replies := make([]*wire.Message, len(requests))
	for i, req := range requests {
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: deadline exceeded before request %d of %d", tangerr.ErrTransport, i+1, len(requests))
		}
		reply, err := m.race(ctx, corrID, addrs, req, deadline)
		if err != nil {
			return nil, fmt.Errorf("request %d of %d: %w", i+1, len(requests), err)
		}
		replies[i] = reply
	}
	return replies, nil
}

// race encodes a single request once, opens one connected socket per
// address, and races up to three
// send attempts per address until a decodable reply arrives or the
// deadline passes.
func (m *Messenger) race(ctx context.Context, corrID string, addrs []*net.UDPAddr, req *wire.Message, deadline time.Time) (*wire.Message, error) {
	reqBytes, err := wire.Marshal(req)
	if err != nil {
		return nil, err
	}

	budget := time.Until(deadline)
	if budget <= 0 {
		return nil, fmt.Errorf("%w: deadline already passed", tangerr.ErrTransport)
	}
	perAttempt := attemptTimeout(budget, len(addrs))

	raceCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	type outcome struct {
		reply *wire.Message
		err   error
	}
	results := make(chan outcome, len(addrs))

	var wg sync.WaitGroup
	for _, addr := range addrs {
		wg.Add(1)
		go func(addr *net.UDPAddr) {
			defer wg.Done()
			reply, err := sendAndReceive(raceCtx, m.cfg.Logger, corrID, addr, reqBytes, perAttempt)
			select {
			case results <- outcome{reply, err}:
			case <-raceCtx.Done():
			}
		}(addr)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var lastErr error
	for o := range results {
		if o.err == nil && o.reply != nil {
			cancel()
			return o.reply, nil
		}
		if o.err != nil {
			lastErr = o.err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no address replied")
	}
	return nil, fmt.Errorf("%w: %v", tangerr.ErrTransport, lastErr)
}

// sendAndReceive performs up to sendAttempts send/poll cycles against
// one address and returns the first reply that decodes successfully.
func sendAndReceive(ctx context.Context, logger log.Logger, corrID string, addr *net.UDPAddr, reqBytes []byte, perAttempt time.Duration) (*wire.Message, error) {
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	buf := make([]byte, wire.MaxDatagramSize)
	var lastErr error

	for attempt := 1; attempt <= sendAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if _, err := conn.Write(reqBytes); err != nil {
			lastErr = err
			continue
		}
		logAttempt(logger, corrID, addr.String(), attempt, log.AttemptOutcomeSent, perAttempt)

		if err := conn.SetReadDeadline(time.Now().Add(perAttempt)); err != nil {
			lastErr = err
			continue
		}
		n, err := conn.Read(buf)
		if err != nil {
			lastErr = err
			logAttempt(logger, corrID, addr.String(), attempt, log.AttemptOutcomeTimedOut, perAttempt)
			continue
		}

		msg, err := wire.Unmarshal(buf[:n])
		if err != nil {
			lastErr = err
			logAttempt(logger, corrID, addr.String(), attempt, log.AttemptOutcomeUndecodable, perAttempt)
			continue
		}

		logAttempt(logger, corrID, addr.String(), attempt, log.AttemptOutcomeDecoded, perAttempt)
		return msg, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no reply from %s", addr)
	}
	return nil, lastErr
}

func logAttempt(logger log.Logger, corrID, addr string, attempt int, outcome log.AttemptOutcome, timeout time.Duration) {
	logger.Log(log.Event{
		Timestamp:     time.Now(),
		CorrelationID: corrID,
		Direction:     attemptDirection(outcome),
		Layer:         log.LayerMessenger,
		Category:      log.CategoryAttempt,
		RemoteAddr:    addr,
		Attempt: &log.AttemptEvent{
			AttemptNumber: attempt,
			Outcome:       outcome,
			Timeout:       timeout,
		},
	})
}

func attemptDirection(outcome log.AttemptOutcome) log.Direction {
	if outcome == log.AttemptOutcomeSent {
		return log.DirectionOut
	}
	return log.DirectionIn
}
