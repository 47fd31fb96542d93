package proxydetect

import (
	"errors"
	"fmt"
	"testing"
)

// fakeSystemQuery is a scriptable SystemProxyQuery.
type fakeSystemQuery struct {
	cfg *ProxyConfig
	err error
}

func (f *fakeSystemQuery) Default() (*ProxyConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, fmt.Errorf("%w: nothing configured", ErrSourceAbsent)
	}
	return f.cfg.Clone(), nil
}

// fakeUserStore is a scriptable UserProxyQuery.
type fakeUserStore struct {
	autoDetect bool
	pacURL     string
	named      *ProxyConfig
	err        error
}

func (f *fakeUserStore) AutoDetect() (*ProxyConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.autoDetect {
		return nil, fmt.Errorf("%w: WPAD not enabled", ErrSourceAbsent)
	}
	return autoDetectConfig(SourceIEWPAD), nil
}

func (f *fakeUserStore) AutoConfigURL() (*ProxyConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.pacURL == "" {
		return nil, fmt.Errorf("%w: no PAC URL", ErrSourceAbsent)
	}
	return autoConfigURLConfig(SourceIEPAC, f.pacURL), nil
}

func (f *fakeUserStore) Named() (*ProxyConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.named == nil {
		return nil, fmt.Errorf("%w: no manual proxy", ErrSourceAbsent)
	}
	return f.named.Clone(), nil
}

func TestDefaultSystemDetect(t *testing.T) {
	want := &ProxyConfig{
		Mode:       NamedProxy,
		HTTPProxy:  HostPort{Host: "proxy.example.com", Port: "8080"},
		HTTPSProxy: HostPort{Host: "proxy.example.com", Port: "8080"},
		BypassList: []string{"<local>"},
	}
	d := NewDefaultSystemDetector(&fakeSystemQuery{cfg: want})
	if got := d.Source(); got != SourceWinHTTP {
		t.Errorf("source: got %q, want %q", got, SourceWinHTTP)
	}
	cfg, err := d.Detect()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPProxy != want.HTTPProxy {
		t.Errorf("got %+v, want %+v", cfg.HTTPProxy, want.HTTPProxy)
	}

	_, err = NewDefaultSystemDetector(&fakeSystemQuery{}).Detect()
	if !errors.Is(err, ErrSourceAbsent) {
		t.Errorf("unconfigured: got %v, want ErrSourceAbsent", err)
	}
}

func TestUserStoreDetectors(t *testing.T) {
	store := &fakeUserStore{
		autoDetect: true,
		pacURL:     "http://pac.example.com/p.pac",
		named: &ProxyConfig{
			Mode:      NamedProxy,
			HTTPProxy: HostPort{Host: "proxy.example.com", Port: "8080"},
		},
	}

	tests := []struct {
		name     string
		d        Detector
		wantSrc  string
		wantMode Mode
	}{
		{"wpad", NewAutoDetectDetector(store), SourceIEWPAD, AutoDetect},
		{"pac", NewAutoConfigDetector(store), SourceIEPAC, AutoConfigURL},
		{"named", NewNamedDetector(store), SourceIENamed, NamedProxy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Source(); got != tt.wantSrc {
				t.Errorf("source: got %q, want %q", got, tt.wantSrc)
			}
			cfg, err := tt.d.Detect()
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Mode != tt.wantMode {
				t.Errorf("mode: got %v, want %v", cfg.Mode, tt.wantMode)
			}
		})
	}
}

func TestUserStoreContextMismatch(t *testing.T) {
	// A store queried outside the owning user context must fail rather than
	// hand back another user's configuration.
	store := &fakeUserStore{err: fmt.Errorf("%w: running as service", ErrContextMismatch)}

	for _, d := range []Detector{
		NewAutoDetectDetector(store),
		NewAutoConfigDetector(store),
		NewNamedDetector(store),
	} {
		if _, err := d.Detect(); !errors.Is(err, ErrContextMismatch) {
			t.Errorf("%s: got %v, want ErrContextMismatch", d.Source(), err)
		}
	}
}
