package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

var ErrAlreadyPlaying = errors.New("audio already playing for this key")

// Channel separates original-message playback from translation playback. Each
// channel allows at most one active sound; the two channels are independent.
type Channel int

const (
	Primary Channel = iota
	Translation
)

func (c Channel) String() string {
	if c == Translation {
		return "translation"
	}
	return "primary"
}

// PrimaryKey identifies a primary playback by payload content.
func PrimaryKey(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

// TranslationKey identifies a translation playback by message and language.
func TranslationKey(messageID, code string) string {
	return messageID + ":" + code
}

// Device turns a decoded audio file into sound. Play blocks until playback
// finishes or ctx is cancelled.
type Device interface {
	Play(ctx context.Context, path string) error
}

// CommandDevice shells out to an external player binary.
type CommandDevice struct {
	Command string
}

func (d CommandDevice) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, d.Command, path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s: %w", d.Command, err)
	}
	return nil
}

type playback struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller materializes encoded audio payloads as transient files and plays
// them through a Device, holding at most one active playback per channel.
// Starting a different key on a busy channel preempts the running sound;
// starting the same key again is rejected so the triggering control stays
// disabled while its sound plays.
type Controller struct {
	device Device
	logger *zap.Logger

	mu      sync.Mutex
	playing map[Channel]*playback
}

// NewController wires a controller to a playback device.
func NewController(device Device, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		device:  device,
		logger:  logger,
		playing: make(map[Channel]*playback),
	}
}

// Play decodes payload into a temp file, marks the channel busy under key and
// drives the device. It blocks until playback resolves. The temp file and the
// busy marker are released on success and on every error path.
func (c *Controller) Play(ctx context.Context, payload []byte, channel Channel, key string) error {
	if len(payload) == 0 {
		return errors.New("empty audio payload")
	}

	playCtx, cancel := context.WithCancel(ctx)
	current := &playback{key: key, cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	for {
		prev := c.playing[channel]
		if prev == nil {
			break
		}
		if prev.key == key {
			c.mu.Unlock()
			cancel()
			return ErrAlreadyPlaying
		}
		// Preempt: one sound per channel at any instant. Another preemptor
		// may have claimed the channel while we waited, so re-check until the
		// slot is actually free before registering.
		prev.cancel()
		c.mu.Unlock()
		<-prev.done
		c.mu.Lock()
	}
	c.playing[channel] = current
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.playing[channel] == current {
			delete(c.playing, channel)
		}
		c.mu.Unlock()
		close(current.done)
	}()

	path, err := writeTempAudio(payload)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	if err := c.device.Play(playCtx, path); err != nil {
		if playCtx.Err() != nil {
			// Preempted or caller cancelled; not a device failure.
			return playCtx.Err()
		}
		c.logger.Warn("audio playback failed",
			zap.String("channel", channel.String()),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

// Playing reports whether the given key is the active playback on the channel,
// for disabling the triggering control.
func (c *Controller) Playing(channel Channel, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.playing[channel]
	return cur != nil && cur.key == key
}

func writeTempAudio(payload []byte) (string, error) {
	f, err := os.CreateTemp("", "vocalchat-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create temp audio: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp audio: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp audio: %w", err)
	}
	return f.Name(), nil
}
