package log

import (
	"os"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"text", FormatText, false},
		{"console", FormatText, false},
		{"", FormatText, false},
		{"xml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !tt.wantErr {
				roundTrip, _ := ParseFormat(got.String())
				if roundTrip != got {
					t.Errorf("format %v did not round trip through String()", got)
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelWarn {
		t.Errorf("DefaultConfig.Level = %v, want %v", cfg.Level, LevelWarn)
	}
	if cfg.Format != FormatText {
		t.Errorf("DefaultConfig.Format = %v, want %v", cfg.Format, FormatText)
	}
	if cfg.Output != os.Stderr {
		t.Error("DefaultConfig.Output should be stderr")
	}
	if cfg.ServiceName != "taskplan" {
		t.Errorf("DefaultConfig.ServiceName = %q, want taskplan", cfg.ServiceName)
	}
}

func TestServerConfig(t *testing.T) {
	cfg := ServerConfig()

	if cfg.Level != LevelInfo || cfg.Format != FormatJSON {
		t.Errorf("ServerConfig = %+v, want info/json", cfg)
	}
}

func TestConfigFromFlags(t *testing.T) {
	base := DefaultConfig()

	cfg, err := ConfigFromFlags(base, "debug", "json")
	if err != nil {
		t.Fatalf("ConfigFromFlags() error = %v", err)
	}
	if cfg.Level != LevelDebug || cfg.Format != FormatJSON {
		t.Errorf("ConfigFromFlags() = %+v, want debug/json", cfg)
	}

	unchanged, err := ConfigFromFlags(base, "", "")
	if err != nil {
		t.Fatalf("ConfigFromFlags() error = %v", err)
	}
	if unchanged.Level != base.Level || unchanged.Format != base.Format {
		t.Error("empty flags should keep base values")
	}

	if _, err := ConfigFromFlags(base, "loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := ConfigFromFlags(base, "", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
