package narration

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/realtime-ai/narrator/pkg/audio"
	"github.com/realtime-ai/narrator/pkg/pipeline"
	"github.com/realtime-ai/narrator/pkg/retry"
	"github.com/realtime-ai/narrator/pkg/storage"
	"github.com/realtime-ai/narrator/pkg/tts"
)

const testScript = "First sentence here. Second one follows. Third."

type synthFunc func(ctx context.Context, req *tts.SynthesizeRequest) (*tts.SynthesizeResponse, error)

type fakeProvider struct {
	mu   sync.Mutex
	reqs []tts.SynthesizeRequest
	fn   synthFunc
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Synthesize(ctx context.Context, req *tts.SynthesizeRequest) (*tts.SynthesizeResponse, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, *req)
	fn := f.fn
	f.mu.Unlock()

	if fn == nil {
		return pcmResponse(100, tts.DefaultSampleRate), nil
	}
	return fn(ctx, req)
}

func (f *fakeProvider) GetSupportedVoices() []string { return []string{"Puck", "Kore"} }
func (f *fakeProvider) GetDefaultVoice() string      { return "Puck" }
func (f *fakeProvider) ValidateConfig() error        { return nil }

func (f *fakeProvider) requests() []tts.SynthesizeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tts.SynthesizeRequest, len(f.reqs))
	copy(out, f.reqs)
	return out
}

func (f *fakeProvider) callsFor(text string) int {
	n := 0
	for _, r := range f.requests() {
		if r.Text == text {
			n++
		}
	}
	return n
}

func pcmResponse(samples, rate int) *tts.SynthesizeResponse {
	raw := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(1000)))
	}
	return &tts.SynthesizeResponse{
		AudioData:   raw,
		AudioFormat: tts.AudioFormat{SampleRate: rate, Channels: 1, Encoding: tts.EncodingPCM16},
	}
}

func fakeFactory(p *fakeProvider) tts.Factory {
	return func(key string) (tts.Provider, error) {
		if key == "" {
			return nil, fmt.Errorf("%w: key missing", tts.ErrInvalidCredential)
		}
		return p, nil
	}
}

type fixture struct {
	provider *fakeProvider
	handles  *storage.MemoryStore
	bus      *pipeline.EventBus
	session  *Session
	orch     *Orchestrator
}

func newFixture(t *testing.T, bound int) *fixture {
	t.Helper()

	f := &fixture{
		provider: &fakeProvider{},
		handles:  storage.NewMemoryStore(),
		bus:      pipeline.NewEventBus(),
	}
	require.NoError(t, f.bus.Start(context.Background()))
	t.Cleanup(f.bus.Stop)

	s, err := NewSession(SessionConfig{
		Factory:        fakeFactory(f.provider),
		Credential:     "test-key",
		Handles:        f.handles,
		Bus:            f.bus,
		MaxBlockLength: bound,
	})
	require.NoError(t, err)
	f.session = s

	f.orch = NewOrchestrator(s, OrchestratorConfig{
		Retry: retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2},
	})
	t.Cleanup(s.Close)
	return f
}

func (f *fixture) subscribe(types ...pipeline.EventType) chan pipeline.Event {
	ch := make(chan pipeline.Event, 64)
	for _, t := range types {
		f.bus.Subscribe(t, ch)
	}
	return ch
}

func drain(ch chan pipeline.Event) []pipeline.Event {
	var out []pipeline.Event
	for {
		select {
		case evt := <-ch:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// countingEncoder records how many samples it was fed.
type countingEncoder struct {
	samples int
	frames  int
	flushed bool
}

func (e *countingEncoder) EncodeFrame(pcm []int16) ([]byte, error) {
	e.samples += len(pcm)
	e.frames++
	return []byte{0xAA}, nil
}

func (e *countingEncoder) Flush() ([]byte, error) {
	e.flushed = true
	return []byte{0xEE}, nil
}

// stretchResampler changes the rate label and scales the length linearly.
type stretchResampler struct {
	calls   int
	targets []int
}

func (r *stretchResampler) Resample(buf *audio.SampleBuffer, targetRate int) (*audio.SampleBuffer, error) {
	r.calls++
	r.targets = append(r.targets, targetRate)
	mono := audio.Downmix(buf)
	n := mono.Len() * targetRate / mono.SampleRate
	out := audio.NewSampleBuffer(targetRate, 1, n)
	for i := range out.Channels[0] {
		out.Channels[0][i] = mono.Channels[0][i*mono.Len()/n]
	}
	return out, nil
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
