// ABOUTME: Tests for the dual-channel handle
// ABOUTME: Uses in-memory channels to check fan-out order, seek guards and per-role settings
package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/harperreed/dualdeck/pkg/audio/output"
)

// fakeChannel records calls and simulates a playhead
type fakeChannel struct {
	name    string
	log     *[]string
	lengths map[string]int64
	loaded  string
	length  int64
	time    int64
	volume  int
	muted   bool
	device  string
	playing bool
	failOn  string
}

func newFakePair(lengths map[string]int64) (*fakeChannel, *fakeChannel, *[]string) {
	var log []string
	p := &fakeChannel{name: "primary", log: &log, lengths: lengths, volume: 100}
	s := &fakeChannel{name: "secondary", log: &log, lengths: lengths, volume: 100}
	return p, s, &log
}

func (f *fakeChannel) record(op string) error {
	*f.log = append(*f.log, f.name+":"+op)
	if f.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeChannel) Load(path string) error {
	if err := f.record("load"); err != nil {
		return err
	}
	length, ok := f.lengths[path]
	if !ok {
		return errors.New("unreadable media")
	}
	f.loaded, f.length, f.time = path, length, 0
	return nil
}

func (f *fakeChannel) Unload() error {
	f.loaded, f.length, f.time, f.playing = "", 0, 0, false
	return f.record("unload")
}

func (f *fakeChannel) Play() error {
	if err := f.record("play"); err != nil {
		return err
	}
	if f.loaded == "" {
		return output.ErrNotLoaded
	}
	f.playing = true
	return nil
}

func (f *fakeChannel) Pause() error { f.playing = false; return f.record("pause") }
func (f *fakeChannel) Stop() error { f.playing = false; f.time = 0; return f.record("stop") }

func (f *fakeChannel) SetTime(ms int64) error {
	if err := f.record("seek"); err != nil {
		return err
	}
	f.time = ms
	return nil
}

func (f *fakeChannel) Time() int64 { return f.time }
func (f *fakeChannel) Length() int64 { return f.length }
func (f *fakeChannel) SetVolume(level int) error { f.volume = level; return f.record("volume") }
func (f *fakeChannel) SetMute(muted bool) error { f.muted = muted; return f.record("mute") }
func (f *fakeChannel) SetOutputDevice(id string) error {
	f.device = id
	return f.record("device")
}
func (f *fakeChannel) Close() error { return f.record("close") }

var _ output.Channel = (*fakeChannel)(nil)

func TestFanOutOrder(t *testing.T) {
	p, s, log := newFakePair(map[string]int64{"clip.wav": 10000})
	d := NewDual(p, s)

	d.Load("clip.wav")
	d.Play()
	d.Pause()
	d.Stop()

	got := strings.Join(*log, ",")
	want := "primary:load,secondary:load,primary:play,secondary:play,primary:pause,secondary:pause,primary:stop,secondary:stop"
	if got != want {
		t.Errorf("unexpected call order:\n got  %s\n want %s", got, want)
	}
}

func TestLoadFailureKeepsSource(t *testing.T) {
	p, s, _ := newFakePair(map[string]int64{"clip.wav": 10000})
	d := NewDual(p, s)

	if res := d.Load("clip.wav"); !res.OK() {
		t.Fatalf("load failed: %v", res.Err())
	}

	res := d.Load("missing.wav")
	if res.OK() {
		t.Fatal("expected load of missing file to fail")
	}
	if res.Primary == nil || res.Secondary == nil {
		t.Error("expected both channels to report the failure")
	}
	if d.Source() != "clip.wav" {
		t.Errorf("expected source to remain clip.wav, got %q", d.Source())
	}
	if d.Length() != 10000 {
		t.Errorf("expected prior length to remain, got %d", d.Length())
	}
}

func TestSecondaryLoadFailureUnbindsSecondary(t *testing.T) {
	p, s, log := newFakePair(map[string]int64{"a.wav": 10000, "b.wav": 5000})
	d := NewDual(p, s)

	if res := d.Load("a.wav"); !res.OK() {
		t.Fatalf("load failed: %v", res.Err())
	}

	s.failOn = "load"
	*log = nil
	res := d.Load("b.wav")
	if res.Primary != nil {
		t.Fatalf("expected primary load to succeed, got %v", res.Primary)
	}
	if res.Secondary == nil {
		t.Fatal("expected secondary failure to be reported")
	}
	if d.Source() != "b.wav" {
		t.Errorf("expected source b.wav, got %q", d.Source())
	}
	if p.loaded != "b.wav" {
		t.Errorf("expected primary to hold b.wav, got %q", p.loaded)
	}
	if s.loaded != "" {
		t.Errorf("expected secondary to be unbound, still holds %q", s.loaded)
	}

	got := strings.Join(*log, ",")
	if want := "primary:load,secondary:load,secondary:unload"; got != want {
		t.Errorf("unexpected calls:\n got  %s\n want %s", got, want)
	}

	play := d.Play()
	if play.Primary != nil {
		t.Errorf("expected primary to play, got %v", play.Primary)
	}
	if !errors.Is(play.Secondary, output.ErrNotLoaded) || s.playing {
		t.Errorf("expected unbound secondary to stay silent, got %v", play.Secondary)
	}
}

func TestSeekAppliesToBoth(t *testing.T) {
	p, s, _ := newFakePair(map[string]int64{"clip.wav": 10000})
	d := NewDual(p, s)
	d.Load("clip.wav")

	if res := d.Seek(8000); !res.OK() {
		t.Fatalf("seek failed: %v", res.Err())
	}
	if p.time != 8000 || s.time != 8000 {
		t.Errorf("expected both channels at 8000, got %d and %d", p.time, s.time)
	}
	if d.Position() != 8000 {
		t.Errorf("expected position 8000, got %d", d.Position())
	}
}

func TestSeekIsIdempotent(t *testing.T) {
	p, s, _ := newFakePair(map[string]int64{"clip.wav": 10000})
	d := NewDual(p, s)
	d.Load("clip.wav")

	d.Seek(3000)
	once := d.Position()
	d.Seek(3000)

	if d.Position() != once {
		t.Errorf("expected repeated seek to keep %d, got %d", once, d.Position())
	}
}

func TestSeekWithUnknownLength(t *testing.T) {
	p, s, log := newFakePair(map[string]int64{"stream.mp3": 0})
	d := NewDual(p, s)
	d.Load("stream.mp3")
	p.time, s.time = 1200, 1200
	before := len(*log)

	res := d.Seek(5000)

	if !errors.Is(res.Err(), ErrUnknownLength) {
		t.Fatalf("expected ErrUnknownLength, got %v", res.Err())
	}
	if p.time != 1200 || s.time != 1200 {
		t.Errorf("expected positions unchanged, got %d and %d", p.time, s.time)
	}
	if len(*log) != before {
		t.Errorf("expected no channel calls, got %v", (*log)[before:])
	}
}

func TestPerRoleSettings(t *testing.T) {
	p, s, _ := newFakePair(nil)
	d := NewDual(p, s)

	d.SetVolume(Primary, 40)
	d.SetMute(Secondary, true)

	if p.volume != 40 || s.volume != 100 {
		t.Errorf("expected volumes 40/100, got %d/%d", p.volume, s.volume)
	}
	if p.muted || !s.muted {
		t.Errorf("expected only secondary muted, got %v/%v", p.muted, s.muted)
	}
}

func TestSetOutputDeviceIgnoresEmptyID(t *testing.T) {
	p, s, log := newFakePair(nil)
	d := NewDual(p, s)

	if err := d.SetOutputDevice(Primary, ""); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if len(*log) != 0 {
		t.Errorf("expected no channel calls, got %v", *log)
	}

	d.SetOutputDevice(Secondary, "b2")
	if s.device != "b2" || p.device != "" {
		t.Errorf("expected only secondary rebound, got %q/%q", p.device, s.device)
	}
}

func TestResultErr(t *testing.T) {
	if err := (Result{}).Err(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	boom := errors.New("boom")
	err := Result{Secondary: boom}.Err()
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to wrap boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "secondary") {
		t.Errorf("expected role in message, got %q", err.Error())
	}
}

func TestRoleString(t *testing.T) {
	if Primary.String() != "primary" || Secondary.String() != "secondary" {
		t.Error("unexpected role names")
	}
}
