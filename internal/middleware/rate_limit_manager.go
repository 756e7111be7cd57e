package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitManager keeps per-IP limiters for general traffic and for publish
// requests, and evicts idle entries in the background.
type RateLimitManager struct {
	visitors          map[string]*visitor
	visitorsMu        sync.Mutex
	publishLimiters   map[string]*visitor
	publishLimitersMu sync.Mutex
	ctx               context.Context
	cancel            context.CancelFunc
	wg                sync.WaitGroup
}

// NewRateLimitManager creates a manager whose cleanup loop stops when ctx is
// cancelled or Shutdown is called.
func NewRateLimitManager(ctx context.Context) *RateLimitManager {
	managerCtx, cancel := context.WithCancel(ctx)

	m := &RateLimitManager{
		visitors:        make(map[string]*visitor),
		publishLimiters: make(map[string]*visitor),
		ctx:             managerCtx,
		cancel:          cancel,
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// GetVisitor retrieves or creates the general limiter for ip. It returns nil
// when rate limiting is disabled.
func (m *RateLimitManager) GetVisitor(ip string, requestsPerWindow int, windowSeconds int, burst int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}
	if burst < requestsPerWindow {
		burst = requestsPerWindow
	}

	m.visitorsMu.Lock()
	defer m.visitorsMu.Unlock()
	return getOrCreate(m.visitors, ip, requestsPerWindow, windowSeconds, burst)
}

// GetPublishLimiter retrieves or creates the publish limiter for ip.
func (m *RateLimitManager) GetPublishLimiter(ip string, requestsPerWindow int, windowSeconds int) *rate.Limiter {
	if requestsPerWindow <= 0 {
		return nil
	}

	m.publishLimitersMu.Lock()
	defer m.publishLimitersMu.Unlock()
	return getOrCreate(m.publishLimiters, ip, requestsPerWindow, windowSeconds, requestsPerWindow)
}

func getOrCreate(visitors map[string]*visitor, ip string, requestsPerWindow, windowSeconds, burst int) *rate.Limiter {
	if v, exists := visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	limit := rate.Limit(float64(requestsPerWindow) / float64(windowSeconds))

	limiter := rate.NewLimiter(limit, burst)
	visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (m *RateLimitManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.cleanup(time.Now())
		}
	}
}

func (m *RateLimitManager) cleanup(now time.Time) {
	m.visitorsMu.Lock()
	for ip, v := range m.visitors {
		if now.Sub(v.lastSeen) > 3*time.Minute {
			delete(m.visitors, ip)
		}
	}
	m.visitorsMu.Unlock()

	m.publishLimitersMu.Lock()
	for ip, v := range m.publishLimiters {
		if now.Sub(v.lastSeen) > 10*time.Minute {
			delete(m.publishLimiters, ip)
		}
	}
	m.publishLimitersMu.Unlock()
}

// Shutdown stops the cleanup goroutine and waits for it to finish.
func (m *RateLimitManager) Shutdown() error {
	m.cancel()
	m.wg.Wait()
	return nil
}
