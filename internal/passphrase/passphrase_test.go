package passphrase

import (
    "context"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func neverExists(context.Context, string) (bool, error) { return false, nil }

func TestGenerateFourDistinctWords(t *testing.T) {
    g := NewGenerator("no-such-file") // fallback list
    phrase, err := g.Generate(context.Background(), neverExists)
    if err != nil {
        t.Fatalf("generate: %v", err)
    }
    words := strings.Split(phrase, "-")
    if len(words) != 4 {
        t.Fatalf("expected 4 words, got %q", phrase)
    }
    seen := map[string]bool{}
    for _, w := range words {
        if w == "" {
            t.Fatalf("empty word in %q", phrase)
        }
        if seen[w] {
            t.Fatalf("repeated word %q in %q", w, phrase)
        }
        seen[w] = true
    }
    if phrase != strings.ToLower(phrase) {
        t.Fatalf("phrase not lower-case: %q", phrase)
    }
}

func TestGenerateRespectsExistsCheck(t *testing.T) {
    g := NewGenerator("no-such-file")
    calls := 0
    // Reject the first two candidates; the third must come back.
    exists := func(ctx context.Context, candidate string) (bool, error) {
        calls++
        return calls <= 2, nil
    }
    phrase, err := g.Generate(context.Background(), exists)
    if err != nil {
        t.Fatalf("generate: %v", err)
    }
    if phrase == "" || calls != 3 {
        t.Fatalf("expected third candidate accepted, got %q after %d calls", phrase, calls)
    }
}

func TestGenerateSuffixFallbackWhenCongested(t *testing.T) {
    g := NewGenerator("no-such-file")
    // Every plain sample is taken; only suffixed candidates are free.
    exists := func(ctx context.Context, candidate string) (bool, error) {
        return !strings.HasSuffix(candidate, "-1"), nil
    }
    phrase, err := g.Generate(context.Background(), exists)
    if err != nil {
        t.Fatalf("generate: %v", err)
    }
    if !strings.HasSuffix(phrase, "-1") {
        t.Fatalf("expected numeric suffix fallback, got %q", phrase)
    }
    if len(strings.Split(phrase, "-")) != 5 {
        t.Fatalf("expected base phrase plus suffix, got %q", phrase)
    }
}

func TestGenerateDegenerateWordList(t *testing.T) {
    path := filepath.Join(t.TempDir(), "words.txt")
    if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
        t.Fatal(err)
    }
    g := NewGenerator(path)
    if g.Words() >= 4 {
        t.Fatalf("expected degenerate list, got %d words", g.Words())
    }
    taken := map[string]bool{"reg-code-1": true}
    exists := func(ctx context.Context, candidate string) (bool, error) {
        return taken[candidate], nil
    }
    phrase, err := g.Generate(context.Background(), exists)
    if err != nil {
        t.Fatalf("generate: %v", err)
    }
    if phrase != "reg-code-2" {
        t.Fatalf("expected reg-code-2, got %q", phrase)
    }
}

func TestLoadWordListFiltersShortWords(t *testing.T) {
    path := filepath.Join(t.TempDir(), "words.txt")
    content := "Amber\nox\n  cedar  \n\nBIRCH\nio\n"
    if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
        t.Fatal(err)
    }
    g := NewGenerator(path)
    if g.Words() != 3 {
        t.Fatalf("expected 3 usable words, got %d", g.Words())
    }
}

func TestDisplay(t *testing.T) {
    got := Display("alpha-bravo-charlie-delta")
    if got != "Alpha Bravo Charlie Delta" {
        t.Fatalf("display = %q", got)
    }
    if Display("") != "" {
        t.Fatalf("display of empty phrase should be empty")
    }
}

func TestNormalize(t *testing.T) {
    cases := map[string]string{
        "Alpha Bravo Charlie Delta":    "alpha-bravo-charlie-delta",
        "  alpha   bravo  ":            "alpha-bravo",
        "alpha-bravo-charlie-delta":    "alpha-bravo-charlie-delta",
        "\tAlpha\nBravo ":              "alpha-bravo",
        "":                             "",
    }
    for in, want := range cases {
        if got := Normalize(in); got != want {
            t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
        }
    }
}
