// ABOUTME: Playhead over a decoded clip
// ABOUTME: Thread-safe frame cursor read by device callbacks and moved by transport calls
package output

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/harperreed/dualdeck/pkg/audio"
)

// Cursor tracks the read position inside a clip and applies channel gain
type Cursor struct {
	mu     sync.Mutex
	clip   *audio.Clip
	frame  int
	volume int
	muted  bool
}

// NewCursor creates a cursor at the start of clip with full volume
func NewCursor(clip *audio.Clip) *Cursor {
	return &Cursor{
		clip:   clip,
		volume: 100,
	}
}

// Clip returns the clip being played
func (c *Cursor) Clip() *audio.Clip {
	return c.clip
}

// Read copies the next frames into dst with gain applied and advances the cursor.
// Unfilled space is zeroed. Returns the number of frames copied.
func (c *Cursor) Read(dst []int32) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := c.clip.Channels
	want := len(dst) / channels
	left := c.clip.Frames() - c.frame
	n := want
	if n > left {
		n = left
	}

	start := c.frame * channels
	copy(dst, c.clip.Samples[start:start+n*channels])
	for i := n * channels; i < len(dst); i++ {
		dst[i] = 0
	}
	audio.ApplyVolume(dst[:n*channels], c.volume, c.muted)

	c.frame += n
	return n
}

// Seek moves the cursor to a timestamp
func (c *Cursor) Seek(ms int64) {
	c.SeekFrame(c.clip.FrameAt(ms))
}

// SeekFrame moves the cursor to a frame index, clamped to the clip
func (c *Cursor) SeekFrame(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if frame < 0 {
		frame = 0
	}
	if frame > c.clip.Frames() {
		frame = c.clip.Frames()
	}
	c.frame = frame
}

// Frame returns the current frame index
func (c *Cursor) Frame() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Position returns the current timestamp
func (c *Cursor) Position() int64 {
	return c.clip.MsAt(c.Frame())
}

// Length returns the clip duration
func (c *Cursor) Length() int64 {
	return c.clip.DurationMs()
}

// Done reports whether every frame has been read
func (c *Cursor) Done() bool {
	return c.Frame() >= c.clip.Frames()
}

// SetGain updates volume and mute for subsequent reads
func (c *Cursor) SetGain(volume int, muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = volume
	c.muted = muted
}

// pcmReader exposes a cursor as a signed 16-bit little-endian byte stream
type pcmReader struct {
	cursor *Cursor
}

func newPCMReader(cursor *Cursor) *pcmReader {
	return &pcmReader{cursor: cursor}
}

func (r *pcmReader) frameSize() int {
	return r.cursor.Clip().Channels * 2
}

func (r *pcmReader) Read(p []byte) (int, error) {
	frameSize := r.frameSize()
	frames := len(p) / frameSize
	if frames == 0 {
		return 0, nil
	}

	samples := make([]int32, frames*r.cursor.Clip().Channels)
	n := r.cursor.Read(samples)
	if n == 0 {
		return 0, io.EOF
	}

	for i, s := range samples[:n*r.cursor.Clip().Channels] {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(audio.SampleToInt16(s)))
	}
	return n * frameSize, nil
}

func (r *pcmReader) Seek(offset int64, whence int) (int64, error) {
	frameSize := int64(r.frameSize())
	var frame int64
	switch whence {
	case io.SeekStart:
		frame = offset / frameSize
	case io.SeekCurrent:
		frame = int64(r.cursor.Frame()) + offset/frameSize
	case io.SeekEnd:
		frame = int64(r.cursor.Clip().Frames()) + offset/frameSize
	}
	r.cursor.SeekFrame(int(frame))
	return int64(r.cursor.Frame()) * frameSize, nil
}

// Offset returns the stream position in bytes
func (r *pcmReader) Offset() int64 {
	return int64(r.cursor.Frame() * r.frameSize())
}
