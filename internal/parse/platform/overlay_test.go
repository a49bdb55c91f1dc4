package platform

import (
	"os"
	"path/filepath"
	"testing"
)

const overlayYAML = `
- name: acme-board
  version: "0.1.0"
  confidence: 0.8
  hosts: ["jobs.acme-board.dev"]
  selectors:
    title: ["h1.posting"]
    company: [".org"]
  patterns:
    location:
      - '(?im)^Office[:\s]+(.+)$'
`

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parsers.yml")
	if err := os.WriteFile(path, []byte(overlayYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := LoadOverlay(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles", len(profiles))
	}
	p := profiles[0]
	if p.Name != "acme-board" || p.SelfConfidence != 0.8 {
		t.Errorf("profile = %+v", p)
	}
	if !p.CanHandle("https://jobs.acme-board.dev/42") {
		t.Error("overlay profile rejected its host")
	}
	if len(p.Patterns["location"]) != 1 {
		t.Error("location pattern not compiled")
	}
}

func TestLoadOverlayMissingFile(t *testing.T) {
	profiles, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil || profiles != nil {
		t.Errorf("missing file should be (nil,nil), got (%v,%v)", profiles, err)
	}
}

func TestLoadOverlayRejectsIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parsers.yml")
	if err := os.WriteFile(path, []byte("- version: \"1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOverlay(path); err == nil {
		t.Error("profile without name/hosts must fail loudly")
	}
}

func TestLoadOverlayRejectsBadRegex(t *testing.T) {
	bad := `
- name: x
  hosts: ["x.dev"]
  patterns:
    title: ["(unclosed"]
`
	path := filepath.Join(t.TempDir(), "parsers.yml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOverlay(path); err == nil {
		t.Error("invalid regex must fail loudly")
	}
}
