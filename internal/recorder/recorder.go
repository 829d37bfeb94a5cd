package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyRecording indicates Start was called while a capture is live.
	ErrAlreadyRecording = errors.New("recording already in progress")
	// ErrNotRecording indicates Stop was called without a live capture.
	ErrNotRecording = errors.New("no recording in progress")
)

// Device is an open microphone capture handle. Read yields encoded audio
// bytes until the device is closed; Close releases the underlying track and
// must be called on every exit path.
type Device interface {
	io.ReadCloser
}

// Opener acquires the microphone. Permission denial surfaces here, before any
// capture state exists.
type Opener interface {
	Open(ctx context.Context) (Device, error)
}

// Capture owns at most one device handle for one question's audio response.
// The handle is released on every exit path: Stop, Delete, and Close. A
// stopped capture holds the encoded payload until deleted.
type Capture struct {
	opener Opener
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.Mutex
	device    Device
	buf       bytes.Buffer
	drained   chan struct{}
	readErr   error
	recording bool
	startedAt time.Time
	payload   string
}

// New builds an idle capture session.
func New(opener Opener, logger zerolog.Logger) *Capture {
	return &Capture{
		opener: opener,
		logger: logger.With().Str("component", "recorder").Logger(),
		now:    time.Now,
	}
}

// Start acquires the device and begins buffering audio. On permission denial
// the capture stays in the not-recording state.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording {
		return ErrAlreadyRecording
	}

	device, err := c.opener.Open(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("could not access microphone")
		return fmt.Errorf("could not access microphone: %w", err)
	}

	c.device = device
	c.buf.Reset()
	c.payload = ""
	c.readErr = nil
	c.recording = true
	c.startedAt = c.now()
	c.drained = make(chan struct{})

	go c.drain(device, c.drained)

	c.logger.Debug().Msg("recording started")

	return nil
}

// drain copies device output into the buffer until the device reports EOF,
// which happens once the handle is closed.
func (c *Capture) drain(device Device, done chan struct{}) {
	defer close(done)

	chunk := make([]byte, 4096)
	for {
		n, err := device.Read(chunk)
		if n > 0 {
			c.mu.Lock()
			c.buf.Write(chunk[:n])
			c.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.mu.Lock()
				c.readErr = err
				c.mu.Unlock()
			}
			return
		}
	}
}

// Stop releases the device and encodes the captured bytes into a playable
// data URI payload.
func (c *Capture) Stop() (string, error) {
	c.mu.Lock()
	if !c.recording {
		c.mu.Unlock()
		return "", ErrNotRecording
	}

	device := c.device
	drained := c.drained
	c.device = nil
	c.recording = false
	c.mu.Unlock()

	// Closing the device stops the track; the drain goroutine exits on EOF.
	closeErr := device.Close()
	<-drained

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readErr != nil {
		return "", fmt.Errorf("recording failed: %w", c.readErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to release device: %w", closeErr)
	}

	c.payload = EncodePayload(c.buf.Bytes())

	c.logger.Debug().Int("bytes", c.buf.Len()).Msg("recording stopped")

	return c.payload, nil
}

// Delete discards the recording. A live capture is stopped first, so the
// device is never leaked by a delete-while-recording.
func (c *Capture) Delete() {
	c.mu.Lock()
	recording := c.recording
	c.mu.Unlock()

	if recording {
		_, _ = c.Stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
	c.payload = ""
}

// Close releases any live device handle. Called on component teardown and
// when the response mode switches away from audio.
func (c *Capture) Close() error {
	c.mu.Lock()
	recording := c.recording
	c.mu.Unlock()

	if !recording {
		return nil
	}

	_, err := c.Stop()
	if errors.Is(err, ErrNotRecording) {
		return nil
	}
	return err
}

// Recording reports whether a capture is live.
func (c *Capture) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Elapsed returns how long the live capture has been running, for the
// recording timer display.
func (c *Capture) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return 0
	}
	return c.now().Sub(c.startedAt)
}

// Payload returns the encoded recording, if one has been captured.
func (c *Capture) Payload() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.payload == "" {
		return "", false
	}
	return c.payload, true
}
