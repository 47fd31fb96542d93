package prefsparse

import (
	"testing"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{
			name:      "quoted string value",
			line:      `user_pref("network.proxy.http", "proxy.example.com");`,
			wantKey:   "network.proxy.http",
			wantValue: "proxy.example.com",
			wantOK:    true,
		},
		{
			name:      "integer value",
			line:      `user_pref("network.proxy.type", 5);`,
			wantKey:   "network.proxy.type",
			wantValue: "5",
			wantOK:    true,
		},
		{
			name:      "boolean value",
			line:      `user_pref("network.proxy.share_proxy_settings", true);`,
			wantKey:   "network.proxy.share_proxy_settings",
			wantValue: "true",
			wantOK:    true,
		},
		{
			name:      "leading whitespace",
			line:      `   user_pref("network.proxy.http_port", 8080);`,
			wantKey:   "network.proxy.http_port",
			wantValue: "8080",
			wantOK:    true,
		},
		{
			name:      "url value with parentheses",
			line:      `user_pref("network.proxy.autoconfig_url", "http://pac.example.com/find(proxy).pac");`,
			wantKey:   "network.proxy.autoconfig_url",
			wantValue: "http://pac.example.com/find(proxy).pac",
			wantOK:    true,
		},
		{
			name:      "no trailing semicolon",
			line:      `user_pref("network.proxy.type", 1)`,
			wantKey:   "network.proxy.type",
			wantValue: "1",
			wantOK:    true,
		},
		{
			name:      "empty quoted value",
			line:      `user_pref("network.proxy.autoconfig_url", "");`,
			wantKey:   "network.proxy.autoconfig_url",
			wantValue: "",
			wantOK:    true,
		},
		{name: "comment", line: `# Mozilla User Preferences`},
		{name: "javascript comment", line: `// see netpref docs`},
		{name: "blank", line: ""},
		{name: "other statement", line: `pref("app.update.auto", true);`},
		{name: "missing key quote", line: `user_pref(network.proxy.type, 1);`},
		{name: "empty key", line: `user_pref("", 1);`},
		{name: "missing comma", line: `user_pref("network.proxy.type" 1);`},
		{name: "missing close paren", line: `user_pref("network.proxy.type", 1`},
		{name: "bare empty value", line: `user_pref("network.proxy.type", );`},
		{name: "unbalanced quote in value", line: `user_pref("network.proxy.http", "proxy);`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := Line(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if key != tt.wantKey {
				t.Errorf("key: got %q, want %q", key, tt.wantKey)
			}
			if value != tt.wantValue {
				t.Errorf("value: got %q, want %q", value, tt.wantValue)
			}
		})
	}
}
