package configd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/configloader"
	"github.com/mfulz/pigeist/internal/logging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pigeistd.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(configloader.EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Robot.Backend != "sim" {
		t.Errorf("Robot.Backend = %q, want sim", cfg.Robot.Backend)
	}
	if cfg.Robot.Speeds != command.DefaultSpeeds() {
		t.Errorf("Robot.Speeds = %+v", cfg.Robot.Speeds)
	}
	if len(cfg.Control.Instances) != 1 || cfg.Control.Instances[0].Listen != DefaultSocket {
		t.Errorf("Control.Instances = %+v", cfg.Control.Instances)
	}
	if got := configloader.MustGetConfig[*Config](); got != cfg {
		t.Error("LoadConfig() did not register the config")
	}
}

func TestLoadConfigFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pigeistd.log")
	path := writeConfig(t, `
robot:
  backend: noop
  options:
    realtime: true
  speeds:
    straight: 600
keymap:
  bindings:
    - key: "<F1>"
      description: hop
      handler: forward10cm
    - key: "<ESC>"
      description: quit
      handler: exit
  order: ["<ESC>", "<F1>"]
control:
  instances:
    - name: lan
      enabled: true
      mode: tcp
      listen: 127.0.0.1:7070
      auth:
        enabled: true
acl:
  enabled: true
  users:
    admin:
      token: s3cret
      roles: [pilot]
  roles:
    pilot:
      permissions: [robot_drive, robot_observe]
  handlers:
    pounce:
      rules:
        - subjects: [admin]
log:
  level: debug
  to_file: true
  file: `+logPath+`
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	t.Cleanup(func() {
		configloader.SetConfig(&logging.Config{Level: "info", ToStdout: true})
		_ = logging.Init()
	})

	if cfg.Robot.Backend != "noop" || cfg.Robot.Options["realtime"] != true {
		t.Errorf("Robot = %+v", cfg.Robot)
	}
	if cfg.Robot.Speeds.Straight != 600 || cfg.Robot.Speeds.Turn != 300 {
		t.Errorf("Robot.Speeds = %+v, want straight from file and turn default", cfg.Robot.Speeds)
	}
	km, err := cfg.Keymap.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if len(km.Bindings) != 2 || km.Bindings[0].Key != "<F1>" || km.Order[0] != "<ESC>" {
		t.Errorf("keymap = %+v", km)
	}
	if inst := cfg.Control.Instances[0]; inst.Mode != "tcp" || !inst.Auth.Enabled {
		t.Errorf("instance = %+v", inst)
	}
	if cfg.ACL.Users["admin"].Token != "s3cret" || len(cfg.ACL.Handlers["pounce"].Rules) != 1 {
		t.Errorf("ACL = %+v", cfg.ACL)
	}
	if got := configloader.MustGetConfig[*logging.Config](); got.Level != "debug" {
		t.Errorf("registered log level = %q, want debug", got.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "disabled instance is not checked",
			cfg: Config{Control: ControlMultiConfig{Instances: []ControlInstance{
				{Name: "off", Mode: "carrier-pigeon"},
			}}},
		},
		{
			name: "bad mode",
			cfg: Config{Control: ControlMultiConfig{Instances: []ControlInstance{
				{Name: "x", Enabled: true, Mode: "udp", Listen: ":1"},
			}}},
			wantErr: true,
		},
		{
			name: "missing listen",
			cfg: Config{Control: ControlMultiConfig{Instances: []ControlInstance{
				{Name: "x", Enabled: true, Mode: "unix"},
			}}},
			wantErr: true,
		},
		{
			name: "duplicate names",
			cfg: Config{Control: ControlMultiConfig{Instances: []ControlInstance{
				{Name: "x"}, {Name: "x"},
			}}},
			wantErr: true,
		},
		{
			name: "auth without acl users",
			cfg: Config{Control: ControlMultiConfig{Instances: []ControlInstance{
				{Name: "x", Enabled: true, Mode: "tcp", Listen: ":1", Auth: AuthSettings{Enabled: true}},
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() with a missing explicit path returned nil error")
	}
}
