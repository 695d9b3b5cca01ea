// Package passphrase generates and formats the human-readable check-in
// credentials handed out at registration time.  A passphrase is four
// distinct words joined with hyphens, lower-case in storage, and must be
// unique across every registration ever created.
package passphrase

import (
    "context"
    "fmt"
    "math/rand"
    "os"
    "strings"
)

// maxAttempts bounds the random sampling loop before switching to the
// numeric-suffix fallback.
const maxAttempts = 300

// wordCount is how many words make up a passphrase.
const wordCount = 4

// minWordLen filters out words too short to be memorable or unambiguous.
const minWordLen = 3

// ExistsFunc reports whether a candidate passphrase is already taken.
// Create flows pass a check that runs inside the signup transaction so the
// uniqueness read and the insert share one atomic scope.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generator samples passphrases from a word list.
type Generator struct {
    words []string
}

// NewGenerator loads the word list at path.  Words shorter than three
// characters are dropped and everything is lower-cased.  When the file is
// missing or yields no usable words, the built-in fallback list is used so
// generation always works.
func NewGenerator(path string) *Generator {
    return &Generator{words: loadWordList(path)}
}

// Words returns the number of usable words loaded.
func (g *Generator) Words() int { return len(g.words) }

// Generate returns a passphrase that exists() reports as free.
//
// With a degenerate word list (fewer than four words) it falls back to a
// deterministic reg-code-<n> scheme.  Otherwise it samples four distinct
// words up to maxAttempts times; if the space is that congested it appends
// an incrementing numeric suffix to one more sample until a free value is
// found.  No reservation is taken: the caller must insert the registration
// promptly, relying on the passphrase uniqueness constraint as backstop.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
    if len(g.words) < wordCount {
        for idx := 1; ; idx++ {
            candidate := fmt.Sprintf("reg-code-%d", idx)
            taken, err := exists(ctx, candidate)
            if err != nil {
                return "", err
            }
            if !taken {
                return candidate, nil
            }
        }
    }
    for attempts := 0; attempts < maxAttempts; attempts++ {
        candidate := g.sample()
        taken, err := exists(ctx, candidate)
        if err != nil {
            return "", err
        }
        if !taken {
            return candidate, nil
        }
    }
    base := g.sample()
    for suffix := 1; ; suffix++ {
        candidate := fmt.Sprintf("%s-%d", base, suffix)
        taken, err := exists(ctx, candidate)
        if err != nil {
            return "", err
        }
        if !taken {
            return candidate, nil
        }
    }
}

// sample picks wordCount distinct words and joins them with hyphens.
func (g *Generator) sample() string {
    idx := rand.Perm(len(g.words))[:wordCount]
    picked := make([]string, wordCount)
    for i, j := range idx {
        picked[i] = g.words[j]
    }
    return strings.Join(picked, "-")
}

// Display renders a stored passphrase for humans: space-joined with each
// word capitalized ("alpha-bravo-charlie-delta" -> "Alpha Bravo Charlie Delta").
func Display(p string) string {
    if p == "" {
        return ""
    }
    words := strings.Split(p, "-")
    for i, w := range words {
        if w == "" {
            continue
        }
        words[i] = strings.ToUpper(w[:1]) + w[1:]
    }
    return strings.Join(words, " ")
}

// Normalize converts user input to the storage form: trimmed, lower-cased,
// with interior whitespace runs collapsed to single hyphens.  Lookups must
// normalize before querying; the store only ever sees the canonical form.
func Normalize(raw string) string {
    return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), "-")
}

// loadWordList reads one word per line from path.
func loadWordList(path string) []string {
    data, err := os.ReadFile(path)
    if err != nil {
        return fallbackWords()
    }
    var words []string
    for _, line := range strings.Split(string(data), "\n") {
        w := strings.ToLower(strings.TrimSpace(line))
        if len(w) >= minWordLen {
            words = append(words, w)
        }
    }
    if len(words) == 0 {
        return fallbackWords()
    }
    return words
}

// fallbackWords is the built-in list used when no word file is available.
func fallbackWords() []string {
    return []string{
        "alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
        "golf", "hotel", "india", "juliet", "kilo", "lima",
    }
}
