package pixelwalker

import (
	"os"
	"testing"
	"time"
)

func TestResolveConfig_Defaults(t *testing.T) {
	resolved, err := resolveConfig(Config{})
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if resolved.GameWSURL != "wss://server.pixelwalker.net" {
		t.Errorf("GameWSURL = %q, want default", resolved.GameWSURL)
	}
	if resolved.ReconnectCount != 3 {
		t.Errorf("ReconnectCount = %d, want 3", resolved.ReconnectCount)
	}
	if resolved.ReconnectInterval != 5500*time.Millisecond {
		t.Errorf("ReconnectInterval = %s, want 5.5s", resolved.ReconnectInterval)
	}
	if len(resolved.HandlePackets) != 1 || resolved.HandlePackets[0] != AutoPing {
		t.Errorf("HandlePackets = %v, want [PING]", resolved.HandlePackets)
	}
	if resolved.SendCapacity != 100 || resolved.SendInterval != time.Second {
		t.Errorf("send bucket = %d/%s, want 100/1s", resolved.SendCapacity, resolved.SendInterval)
	}
	if resolved.ChatCapacity != 10 || resolved.ChatInterval != time.Second {
		t.Errorf("chat bucket = %d/%s, want 10/1s", resolved.ChatCapacity, resolved.ChatInterval)
	}
	if resolved.OwnerSendInterval != 250*time.Millisecond {
		t.Errorf("OwnerSendInterval = %s, want 250ms", resolved.OwnerSendInterval)
	}
	if resolved.Logger == nil {
		t.Error("Logger should default to the standard logger")
	}
}

func TestResolveConfig_EnvFallback(t *testing.T) {
	os.Setenv("PW_GAME_WS_URL", "ws://env-host:5000")
	os.Setenv("PW_RECONNECT_COUNT", "7")
	os.Setenv("PW_HANDLE_PACKETS", "PING,INIT")
	os.Setenv("PW_DISABLE_RECONNECT", "true")
	defer func() {
		os.Unsetenv("PW_GAME_WS_URL")
		os.Unsetenv("PW_RECONNECT_COUNT")
		os.Unsetenv("PW_HANDLE_PACKETS")
		os.Unsetenv("PW_DISABLE_RECONNECT")
	}()

	resolved, err := resolveConfig(Config{})
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if resolved.GameWSURL != "ws://env-host:5000" {
		t.Errorf("GameWSURL = %q, want env value", resolved.GameWSURL)
	}
	if resolved.ReconnectCount != 7 {
		t.Errorf("ReconnectCount = %d, want 7", resolved.ReconnectCount)
	}
	if len(resolved.HandlePackets) != 2 || resolved.HandlePackets[1] != AutoInit {
		t.Errorf("HandlePackets = %v, want [PING INIT]", resolved.HandlePackets)
	}
	if !resolved.DisableReconnect {
		t.Error("DisableReconnect should come from env")
	}
}

func TestResolveConfig_ExplicitOverridesEnv(t *testing.T) {
	os.Setenv("PW_GAME_WS_URL", "ws://env-host:5000")
	defer os.Unsetenv("PW_GAME_WS_URL")

	resolved, err := resolveConfig(Config{
		GameWSURL:     "ws://explicit:6000",
		HandlePackets: []AutoHandle{},
	})
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if resolved.GameWSURL != "ws://explicit:6000" {
		t.Errorf("GameWSURL = %q, want explicit value over env", resolved.GameWSURL)
	}
	if len(resolved.HandlePackets) != 0 {
		t.Errorf("explicit empty HandlePackets should stay empty, got %v", resolved.HandlePackets)
	}
}

func TestResolveConfig_InvalidValues(t *testing.T) {
	if _, err := resolveConfig(Config{ReconnectCount: -1}); err == nil {
		t.Error("resolveConfig() should reject a negative ReconnectCount")
	}
	if _, err := resolveConfig(Config{ReconnectInterval: -time.Second}); err == nil {
		t.Error("resolveConfig() should reject a negative ReconnectInterval")
	}
	if _, err := resolveConfig(Config{HandlePackets: []AutoHandle{"PONG"}}); err == nil {
		t.Error("resolveConfig() should reject unknown packets to handle")
	}
}

func TestResolveConfig_BadEnv(t *testing.T) {
	os.Setenv("PW_RECONNECT_COUNT", "lots")
	defer os.Unsetenv("PW_RECONNECT_COUNT")

	if _, err := resolveConfig(Config{}); err == nil {
		t.Fatal("resolveConfig() should fail on an unparsable env value")
	}
}

func TestResolveConfig_ZeroReconnectCountFromEnv(t *testing.T) {
	os.Setenv("PW_RECONNECT_COUNT", "0")
	defer os.Unsetenv("PW_RECONNECT_COUNT")

	resolved, err := resolveConfig(Config{})
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if resolved.ReconnectCount != 0 {
		t.Errorf("ReconnectCount = %d, want an empty budget", resolved.ReconnectCount)
	}
}
