// ABOUTME: Tests for the malgo channel that do not touch audio hardware
// ABOUTME: Covers load, seek and gain bookkeeping before any device is opened
package output

import (
	"errors"
	"testing"

	"github.com/harperreed/dualdeck/pkg/audio"
	"github.com/rs/zerolog"
)

func TestMalgoImplementsChannel(t *testing.T) {
	var _ Channel = (*Malgo)(nil)
	var _ Channel = (*Oto)(nil)
}

func newTestMalgo(clips map[string]*audio.Clip) *Malgo {
	m := NewMalgo("primary", nil, zerolog.Nop())
	m.open = func(path string) (*audio.Clip, error) {
		clip, ok := clips[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return clip, nil
	}
	return m
}

func TestMalgoBeforeLoad(t *testing.T) {
	m := newTestMalgo(nil)

	if m.Length() != 0 {
		t.Errorf("expected length 0, got %d", m.Length())
	}
	if err := m.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded from Play, got %v", err)
	}
	if err := m.SetTime(100); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded from SetTime, got %v", err)
	}
}

func TestMalgoLoadAndSeek(t *testing.T) {
	m := newTestMalgo(map[string]*audio.Clip{"clip.wav": rampClip(1000, 2, 10000)})

	if err := m.Load("clip.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Length() != 10000 {
		t.Errorf("expected length 10000, got %d", m.Length())
	}

	if err := m.SetTime(2000); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if m.Time() != 2000 {
		t.Errorf("expected time 2000, got %d", m.Time())
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if m.Time() != 0 {
		t.Errorf("expected stop to rewind, got %d", m.Time())
	}
}

func TestMalgoFailedLoadKeepsPriorMedia(t *testing.T) {
	m := newTestMalgo(map[string]*audio.Clip{"clip.wav": rampClip(1000, 2, 10000)})

	if err := m.Load("clip.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := m.Load("missing.wav"); err == nil {
		t.Fatal("expected load of missing file to fail")
	}
	if m.Length() != 10000 {
		t.Errorf("expected prior media to remain, got length %d", m.Length())
	}
}

func TestMalgoUnloadDropsMedia(t *testing.T) {
	m := newTestMalgo(map[string]*audio.Clip{"clip.wav": rampClip(1000, 2, 10000)})

	if err := m.Load("clip.wav"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := m.Unload(); err != nil {
		t.Fatalf("unload failed: %v", err)
	}
	if m.Length() != 0 {
		t.Errorf("expected length 0 after unload, got %d", m.Length())
	}
	if err := m.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded after unload, got %v", err)
	}
}

func TestMalgoGainCarriesAcrossLoads(t *testing.T) {
	m := newTestMalgo(map[string]*audio.Clip{"clip.wav": rampClip(1000, 1, 10)})

	if err := m.SetVolume(150); err != nil {
		t.Fatal(err)
	}
	if m.volume != 100 {
		t.Errorf("expected volume clamped to 100, got %d", m.volume)
	}
	if err := m.SetMute(true); err != nil {
		t.Fatal(err)
	}
	if err := m.Load("clip.wav"); err != nil {
		t.Fatal(err)
	}

	m.cursor.SeekFrame(5)
	buf := make([]int32, 1)
	m.cursor.Read(buf)
	if buf[0] != 0 {
		t.Errorf("expected muted output after reload, got %d", buf[0])
	}
}

func TestMalgoEmptyDeviceIsNoop(t *testing.T) {
	m := newTestMalgo(nil)
	if err := m.SetOutputDevice(""); err != nil {
		t.Errorf("expected empty device id to be ignored, got %v", err)
	}
}

func TestOtoRejectsDeviceSelection(t *testing.T) {
	o := NewOto("secondary", zerolog.Nop())

	if err := o.SetOutputDevice(""); err != nil {
		t.Errorf("expected empty device id to be ignored, got %v", err)
	}
	if err := o.SetOutputDevice("abcd"); !errors.Is(err, ErrDeviceSelection) {
		t.Errorf("expected ErrDeviceSelection, got %v", err)
	}
}

func TestWrite16Bit(t *testing.T) {
	out := make([]byte, 4)
	write16Bit(out, []int32{256, -256})

	if out[0] != 1 || out[1] != 0 {
		t.Errorf("expected first sample 1, got bytes %v", out[:2])
	}
	if out[2] != 0xFF || out[3] != 0xFF {
		t.Errorf("expected second sample -1, got bytes %v", out[2:])
	}
}
