// Package audio plays WAV clips on the local output device.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the rate the output device is opened at. Clips at
// other rates are resampled.
const DefaultSampleRate beep.SampleRate = 44100

const resampleQuality = 4

var (
	ErrDecode = errors.New("audio decode error")
	ErrDevice = errors.New("audio device error")
	ErrWorker = errors.New("audio worker failed")
)

// Device is an audio output. Play must eventually drain s.
type Device interface {
	Open(rate beep.SampleRate) error
	Play(s beep.Streamer)
}

// speakerDevice is the default output backed by beep's speaker package.
type speakerDevice struct{}

func (speakerDevice) Open(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(time.Second/10))
}

func (speakerDevice) Play(s beep.Streamer) {
	speaker.Play(s)
}

// Player plays clips through a Device. Clips started concurrently are mixed
// by the device.
type Player struct {
	device Device
	rate   beep.SampleRate

	openMu sync.Mutex
	opened bool
}

type Option func(*Player)

// WithDevice replaces the speaker output, e.g. in tests.
func WithDevice(d Device) Option {
	return func(p *Player) {
		p.device = d
	}
}

func WithSampleRate(rate beep.SampleRate) Option {
	return func(p *Player) {
		p.rate = rate
	}
}

func NewPlayer(opts ...Option) *Player {
	p := &Player{
		device: speakerDevice{},
		rate:   DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlayWAV decodes data as WAV and plays it to completion. Playback runs on
// its own OS thread; the caller blocks until it finishes. A panic during
// playback is returned as ErrWorker.
func (p *Player) PlayWAV(data []byte) error {
	result := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", ErrWorker, r)
			}
		}()
		result <- p.play(data)
	}()

	return <-result
}

func (p *Player) play(data []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer streamer.Close()

	if format.SampleRate <= 0 {
		return fmt.Errorf("%w: invalid sample rate %d", ErrDecode, format.SampleRate)
	}
	if format.NumChannels < 1 {
		return fmt.Errorf("%w: invalid channel count %d", ErrDecode, format.NumChannels)
	}

	if err := p.open(); err != nil {
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != p.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, p.rate, streamer)
	}

	done := make(chan struct{})
	p.device.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done

	if err := streamer.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// open initialises the device once. A failed open is retried on the next clip.
func (p *Player) open() error {
	p.openMu.Lock()
	defer p.openMu.Unlock()

	if p.opened {
		return nil
	}
	if err := p.device.Open(p.rate); err != nil {
		return err
	}
	p.opened = true
	return nil
}
