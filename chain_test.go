package proxydetect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync/atomic"
	"testing"
)

// stubDetector is a scriptable Detector for chain tests.
type stubDetector struct {
	source string
	cfg    *ProxyConfig
	err    error
	calls  atomic.Int32
}

func (d *stubDetector) Source() string { return d.source }

func (d *stubDetector) Detect() (*ProxyConfig, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.cfg.Clone(), nil
}

func absentDetector(source string) *stubDetector {
	return &stubDetector{source: source, err: fmt.Errorf("%w: stubbed out", ErrSourceAbsent)}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveFirstNonAbsentWins(t *testing.T) {
	first := absentDetector("first")
	second := &stubDetector{source: "second", cfg: autoDetectConfig("second")}
	third := &stubDetector{source: "third", cfg: &ProxyConfig{
		Mode:      NamedProxy,
		HTTPProxy: HostPort{Host: "ignored.example.com", Port: "1"},
	}}

	chain, err := NewChain(WithDetector(first, second, third), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := chain.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != "second" {
		t.Errorf("source: got %q, want %q", cfg.Source, "second")
	}
	if cfg.Mode != AutoDetect {
		t.Errorf("mode: got %v, want AutoDetect", cfg.Mode)
	}
	if third.calls.Load() != 0 {
		t.Error("a detector after the winner should not be invoked")
	}
}

func TestResolveLowerPriorityContentIrrelevant(t *testing.T) {
	// While a higher-priority detector is non-absent, changing what a
	// lower-priority detector would return never changes the output.
	winner := &stubDetector{source: "winner", cfg: autoConfigURLConfig("winner", "http://pac.example.com/p.pac")}
	loser := &stubDetector{source: "loser", cfg: autoDetectConfig("loser")}

	chain, err := NewChain(WithDetector(winner, loser), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	before, err := chain.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	loser.cfg = &ProxyConfig{Mode: NamedProxy, HTTPProxy: HostPort{Host: "other", Port: "9"}}
	loser.err = nil
	after, err := chain.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("output changed with lower-priority content: before %+v, after %+v", before, after)
	}
}

func TestResolveNoProxyTerminates(t *testing.T) {
	// An explicit "no proxy" from a high-priority source is a result, not a
	// fallthrough.
	direct := &stubDetector{source: "policy", cfg: noProxyConfig("policy")}
	named := &stubDetector{source: "user", cfg: &ProxyConfig{
		Mode:      NamedProxy,
		HTTPProxy: HostPort{Host: "proxy.example.com", Port: "8080"},
	}}

	chain, err := NewChain(WithDetector(direct, named), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := chain.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != NoProxy {
		t.Errorf("mode: got %v, want NoProxy", cfg.Mode)
	}
	if named.calls.Load() != 0 {
		t.Error("chain should terminate on an explicit NoProxy result")
	}
}

func TestResolveFailureFallsThrough(t *testing.T) {
	// A malformed source never aborts the chain.
	broken := &stubDetector{source: "broken", err: fmt.Errorf("%w: garbage", ErrMalformedSource)}
	ok := &stubDetector{source: "ok", cfg: autoDetectConfig("ok")}

	chain, err := NewChain(WithDetector(broken, ok), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := chain.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source != "ok" {
		t.Errorf("source: got %q, want %q", cfg.Source, "ok")
	}
}

func TestResolveExhaustedAggregatesDiagnostics(t *testing.T) {
	a := absentDetector("a")
	b := &stubDetector{source: "b", err: fmt.Errorf("%w: locked", ErrIOFailure)}
	c := absentDetector("c")

	chain, err := NewChain(WithDetector(a, b, c), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := chain.Resolve()
	if cfg != nil {
		t.Fatalf("config: got %+v, want nil", cfg)
	}
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("error: got %T, want *ResolveError", err)
	}
	if len(re.Failures) != 3 {
		t.Fatalf("failures: got %d, want 3", len(re.Failures))
	}
	wantSources := []string{"a", "b", "c"}
	for i, f := range re.Failures {
		if f.Source != wantSources[i] {
			t.Errorf("failure %d: got source %q, want %q", i, f.Source, wantSources[i])
		}
	}
	if !errors.Is(re.Failures[1], ErrIOFailure) {
		t.Error("failure 1 should wrap ErrIOFailure")
	}
}

func TestNewChainNoDetectors(t *testing.T) {
	_, err := NewChain()
	if !errors.Is(err, ErrNoDetectors) {
		t.Errorf("got %v, want ErrNoDetectors", err)
	}
}

func TestNewChainFixedPrecedence(t *testing.T) {
	// Options are given out of order; the assembled chain must still follow
	// the fixed precedence.
	chain, err := NewChain(
		WithEnvironment(),
		WithBrowser(&staticLocator{}),
		WithUserStore(&fakeUserStore{}),
		WithSystemDefault(&fakeSystemQuery{}),
		WithGroupPolicy(&fakePolicySource{}),
		WithDeviceManagement(&fakePolicySource{}),
		WithUpdateDev(&fakeKeyValueStore{}),
		WithRegistryOverride(&fakeKeyValueStore{}, `SOFTWARE\Test`),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		SourceRegistryOverride,
		SourceUpdateDev,
		SourceDeviceManagement,
		SourceGroupPolicy,
		SourceWinHTTP,
		SourceIEWPAD,
		SourceIEPAC,
		SourceIENamed,
		SourceFirefox,
		SourceEnvironment,
	}
	if got := chain.Sources(); !reflect.DeepEqual(got, want) {
		t.Errorf("sources:\n got %v\nwant %v", got, want)
	}
}
