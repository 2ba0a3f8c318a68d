package persistence

import (
	"testing"
	"time"
)

func TestMongoConfig_ClientOptions(t *testing.T) {
	tests := map[string]struct {
		cfg      MongoConfig
		wantAuth bool
		wantPool uint64
	}{
		"credentials and pool": {
			cfg: MongoConfig{
				URI:         "mongodb://localhost:27017",
				Username:    "svc",
				Password:    "pw",
				AppName:     "cutoff-alert-service",
				MaxPoolSize: 20,
				Timeout:     3 * time.Second,
			},
			wantAuth: true,
			wantPool: 20,
		},
		"no credentials keeps driver defaults": {
			cfg: MongoConfig{URI: "mongodb://localhost:27017"},
		},
		"username alone is ignored": {
			cfg: MongoConfig{URI: "mongodb://localhost:27017", Username: "svc"},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := tt.cfg.clientOptions()

			if (opts.Auth != nil) != tt.wantAuth {
				t.Errorf("auth set: got %v, want %v", opts.Auth != nil, tt.wantAuth)
			}
			if tt.wantAuth && opts.Auth.Username != tt.cfg.Username {
				t.Errorf("username: got %q", opts.Auth.Username)
			}
			if tt.wantPool != 0 && (opts.MaxPoolSize == nil || *opts.MaxPoolSize != tt.wantPool) {
				t.Errorf("max pool size: got %v, want %d", opts.MaxPoolSize, tt.wantPool)
			}
			if tt.cfg.Timeout > 0 {
				if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != tt.cfg.Timeout {
					t.Errorf("server selection timeout: got %v", opts.ServerSelectionTimeout)
				}
				if opts.ConnectTimeout == nil || *opts.ConnectTimeout != tt.cfg.Timeout {
					t.Errorf("connect timeout: got %v", opts.ConnectTimeout)
				}
			}
			if opts.AppName != nil && *opts.AppName != tt.cfg.AppName {
				t.Errorf("app name: got %q", *opts.AppName)
			}
		})
	}
}
