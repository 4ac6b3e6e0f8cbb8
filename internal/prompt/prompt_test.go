package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func terminal(input string) (*Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewTerminal(strings.NewReader(input), out), out
}

func TestTerminalAskDefault(t *testing.T) {
	term, _ := terminal("\n")
	got, err := term.Ask(Question{Key: "name", Label: "Name", Default: "default"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "default" {
		t.Errorf("got %q, want default", got)
	}
}

func TestTerminalAskValue(t *testing.T) {
	term, out := terminal("emails\n")
	got, err := term.Ask(Question{Key: "name", Label: "Queue name", Default: "default"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "emails" {
		t.Errorf("got %q, want emails", got)
	}
	if !strings.Contains(out.String(), "[default]") {
		t.Errorf("prompt should show the default: %q", out.String())
	}
}

func TestTerminalConfirm(t *testing.T) {
	tests := []struct {
		input   string
		def     bool
		want    bool
		wantErr bool
	}{
		{"y\n", false, true, false},
		{"yes\n", false, true, false},
		{"n\n", true, false, false},
		{"\n", true, true, false},
		{"\n", false, false, false},
		{"maybe\n", false, false, true},
	}
	for _, tt := range tests {
		term, _ := terminal(tt.input)
		got, err := term.Confirm("k", "Continue?", tt.def)
		if tt.wantErr {
			if err == nil {
				t.Errorf("input %q: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("input %q: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTerminalChoose(t *testing.T) {
	options := []string{"database", "redis"}

	term, out := terminal("2\n")
	idx, err := term.Choose("queue_driver", "Queue driver:", options, 0)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
	if !strings.Contains(out.String(), "1) database") || !strings.Contains(out.String(), "2) redis") {
		t.Errorf("menu not rendered: %q", out.String())
	}

	// default on empty input
	term, _ = terminal("\n")
	idx, err = term.Choose("queue_driver", "Queue driver:", options, 0)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if idx != 0 {
		t.Errorf("idx = %d, want default 0", idx)
	}

	// out of range is fatal input validation
	for _, bad := range []string{"0\n", "3\n", "x\n"} {
		term, _ = terminal(bad)
		if _, err := term.Choose("queue_driver", "Queue driver:", options, 0); err == nil {
			t.Errorf("input %q: expected error", strings.TrimSpace(bad))
		}
	}
}

func TestAskInt(t *testing.T) {
	term, _ := terminal("12\n")
	n, err := AskInt(term, "count", "Count", 4)
	if err != nil {
		t.Fatalf("AskInt: %v", err)
	}
	if n != 12 {
		t.Errorf("n = %d, want 12", n)
	}

	term, _ = terminal("\n")
	n, err = AskInt(term, "count", "Count", 4)
	if err != nil {
		t.Fatalf("AskInt default: %v", err)
	}
	if n != 4 {
		t.Errorf("n = %d, want default 4", n)
	}

	term, _ = terminal("lots\n")
	if _, err := AskInt(term, "count", "Count", 4); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestAnswersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	content := "project_name: shop\nqueue_driver: redis\nqueue_count: 2\nqueue1_over_provision: \"no\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	answers, err := LoadAnswers(path)
	if err != nil {
		t.Fatalf("LoadAnswers: %v", err)
	}

	got, err := answers.Ask(Question{Key: "project_name", Default: "laravel"})
	if err != nil || got != "shop" {
		t.Errorf("Ask = %q, %v; want shop", got, err)
	}

	// missing key falls back to the default
	got, err = answers.Ask(Question{Key: "queue1_name", Default: "default"})
	if err != nil || got != "default" {
		t.Errorf("Ask missing = %q, %v; want default", got, err)
	}

	idx, err := answers.Choose("queue_driver", "Queue driver:", []string{"database", "redis"}, 0)
	if err != nil || idx != 1 {
		t.Errorf("Choose = %d, %v; want 1", idx, err)
	}

	ok, err := answers.Confirm("queue1_over_provision", "Keep?", true)
	if err != nil || ok {
		t.Errorf("Confirm = %v, %v; want false", ok, err)
	}

	n, err := AskInt(answers, "queue_count", "Number of queues", 1)
	if err != nil || n != 2 {
		t.Errorf("AskInt = %d, %v; want 2", n, err)
	}
}

func TestAnswersStrict(t *testing.T) {
	answers := NewAnswers(map[string]string{"present": "yes"})
	answers.Strict = true

	if _, err := answers.Ask(Question{Key: "missing", Default: "x"}); err == nil {
		t.Error("strict mode should reject missing keys")
	}
	if ok, err := answers.Confirm("present", "?", false); err != nil || !ok {
		t.Errorf("Confirm present = %v, %v; want true", ok, err)
	}
}

func TestAnswersChooseByIndex(t *testing.T) {
	answers := NewAnswers(map[string]string{"cache_driver": "3"})
	idx, err := answers.Choose("cache_driver", "Cache driver:", []string{"file", "redis", "database"}, 0)
	if err != nil || idx != 2 {
		t.Errorf("Choose = %d, %v; want 2", idx, err)
	}

	answers = NewAnswers(map[string]string{"cache_driver": "9"})
	if _, err := answers.Choose("cache_driver", "Cache driver:", []string{"file", "redis", "database"}, 0); err == nil {
		t.Error("expected error for out-of-range index")
	}
}
