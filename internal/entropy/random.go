// Package entropy provides a true-randomness source. engine.Simulation
// holds a Client, but no simulation draw reads from it: spontaneous
// reintroduction and new-business birth draw from math/rand/v2. It
// prefers random.org's quota-bound HTTP API,
// refilling a small buffer at a time, and falls back to crypto/rand when
// the network is unavailable or the daily quota is exhausted.
package entropy

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	randomOrgEndpoint = "https://www.random.org/decimal-fractions/"
	bufferSize        = 64
	requestTimeout    = 3 * time.Second
)

// Client draws uniform floats in [0,1) from random.org, buffered, falling
// back to crypto/rand on any failure.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.Mutex
	buffer  []float64
	enabled bool
}

// NewClient returns a Client. enabled=false skips the network entirely and
// always uses the crypto/rand fallback, useful for tests and air-gapped
// runs.
func NewClient(enabled bool, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
		enabled:    enabled,
	}
}

// Enabled reports whether this client will attempt the network source.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Float returns a uniform draw in [0,1), from the buffer if available,
// refilling from random.org when empty, and falling back to crypto/rand
// on any refill error.
func (c *Client) Float() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return cryptoRandFloat()
	}
	if len(c.buffer) == 0 {
		if err := c.refill(); err != nil {
			c.logger.Warn("entropy: random.org refill failed, falling back to crypto/rand", "error", err)
			return cryptoRandFloat()
		}
	}
	if len(c.buffer) == 0 {
		return cryptoRandFloat()
	}
	f := c.buffer[len(c.buffer)-1]
	c.buffer = c.buffer[:len(c.buffer)-1]
	return f
}

func (c *Client) refill() error {
	q := url.Values{}
	q.Set("num", strconv.Itoa(bufferSize))
	q.Set("dec", "10")
	q.Set("col", "1")
	q.Set("format", "plain")
	q.Set("rnd", "new")

	req, err := http.NewRequest(http.MethodGet, randomOrgEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("entropy: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("entropy: request random.org: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("entropy: random.org returned %s", resp.Status)
	}

	var values []float64
	scanner := bufio.NewScanner(io.LimitReader(resp.Body, 1<<16))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		values = append(values, f)
	}
	if len(values) == 0 {
		return fmt.Errorf("entropy: empty response from random.org")
	}
	c.buffer = values
	return nil
}

// cryptoRandFloat draws a uniform float64 in [0,1) from crypto/rand.
func cryptoRandFloat() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable; degrade to a
		// fixed midpoint rather than panic mid-simulation.
		return 0.5
	}
	return float64(binary.BigEndian.Uint64(b[:])>>11) / (1 << 53)
}
