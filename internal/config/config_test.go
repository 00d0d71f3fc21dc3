package config

import "testing"

const sampleINI = `
[DEFAULT]
logging_folder = /var/log/test

[logger]
level = INFO

[routing:primary]
bind_address = 127.0.0.1:6446
destinations = 10.0.0.1:3306,10.0.0.2:3306

[routing:secondary]
bind_address = 127.0.0.1:6447
`

func loadSample(t *testing.T) *Store {
	t.Helper()
	store, err := ParseBytes([]byte(sampleINI), DefaultDirectories("testrouter"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return store
}

func TestParseSectionsAndKeys(t *testing.T) {
	store := loadSample(t)

	routingSections := store.Get("routing")
	if len(routingSections) != 2 {
		t.Fatalf("expected 2 routing sections, got %d", len(routingSections))
	}
	if routingSections[0].Key != "primary" || routingSections[1].Key != "secondary" {
		t.Errorf("unexpected section keys: %q, %q", routingSections[0].Key, routingSections[1].Key)
	}

	v, err := routingSections[0].Get("bind_address")
	if err != nil || v != "127.0.0.1:6446" {
		t.Errorf("bind_address = %q, %v", v, err)
	}
}

func TestDuplicateSectionRejected(t *testing.T) {
	store := loadSample(t)
	if _, err := store.AddSection("routing", "primary"); err == nil {
		t.Fatal("expected ErrDuplicateSection")
	}
}

func TestBadOption(t *testing.T) {
	store := loadSample(t)
	sec := store.Get("routing")[1]
	if _, err := sec.Get("destinations"); err == nil {
		t.Fatal("expected ErrBadOption for an option declared in a sibling section")
	}
}

func TestGetOptionStringRequired(t *testing.T) {
	store := loadSample(t)
	sec := store.Get("logger")[0]

	if _, err := GetOptionString(sec, "level", OptionSpec{Required: true}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := GetOptionString(sec, "destination", OptionSpec{Required: true}); err == nil {
		t.Error("expected ErrInvalidArgument for missing required option")
	}
	v, err := GetOptionString(sec, "destination", OptionSpec{Default: "stdout"})
	if err != nil || v != "stdout" {
		t.Errorf("expected default 'stdout', got %q, %v", v, err)
	}
}

func TestSplitAddrPort(t *testing.T) {
	cases := []struct {
		in       string
		wantHost string
		wantPort uint16
	}{
		{"host:1234", "host", 1234},
		{"[::1]:1234", "::1", 1234},
		{"::1", "::1", 0},
		{"host", "host", 0},
	}
	for _, c := range cases {
		host, port, err := SplitAddrPort(c.in, 0, false)
		if err != nil {
			t.Errorf("SplitAddrPort(%q): %v", c.in, err)
			continue
		}
		if host != c.wantHost || port != c.wantPort {
			t.Errorf("SplitAddrPort(%q) = (%q, %d), want (%q, %d)", c.in, host, port, c.wantHost, c.wantPort)
		}
	}
}

func TestSplitAddrPortRejectsOutOfRange(t *testing.T) {
	if _, _, err := SplitAddrPort("host:99999", 0, false); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestGetTCPPort(t *testing.T) {
	if p, err := GetTCPPort("65535"); err != nil || p != 65535 {
		t.Errorf("GetTCPPort(65535) = %d, %v", p, err)
	}
	if _, err := GetTCPPort("65536"); err == nil {
		t.Error("expected error for 65536")
	}
	if p, err := GetTCPPort(""); err != nil || p != 0 {
		t.Errorf("GetTCPPort(\"\") = %d, %v", p, err)
	}
	if _, err := GetTCPPort(":80"); err == nil {
		t.Error("expected error for leading colon")
	}
}
