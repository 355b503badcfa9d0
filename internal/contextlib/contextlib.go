// Package contextlib manages user-supplied context documents (account plans,
// financial decks, meeting notes) that can be toggled into generation
// prompts. Files live under a context directory with a JSON index tracking
// the active flag per file.
package contextlib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ledongthuc/pdf"
)

const (
	maxTextChars = 10000
	maxPDFChars  = 20000
	maxPDFPages  = 20
)

// Entry describes one managed context file.
type Entry struct {
	Filename   string `json:"filename"`
	Type       string `json:"type"` // "pdf", "txt", "md", "csv"
	Active     bool   `json:"active"`
	UploadedAt string `json:"uploaded_at"`
}

// Library is the file-backed context document collection.
type Library struct {
	mu  sync.Mutex
	dir string
}

// NewLibrary creates a context library rooted at dir.
func NewLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create context directory: %w", err)
	}
	return &Library{dir: dir}, nil
}

func (l *Library) indexPath() string {
	return filepath.Join(l.dir, "index.json")
}

func (l *Library) load() map[string]Entry {
	data, err := os.ReadFile(l.indexPath())
	if err != nil {
		return map[string]Entry{}
	}
	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]Entry{}
	}
	return entries
}

func (l *Library) save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal context index: %w", err)
	}
	if err := os.WriteFile(l.indexPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write context index: %w", err)
	}
	return nil
}

// Add stores a context file and marks it active.
func (l *Library) Add(filename string, content []byte, fileType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write context file: %w", err)
	}

	entries := l.load()
	entries[filepath.Base(filename)] = Entry{
		Filename:   filepath.Base(filename),
		Type:       fileType,
		Active:     true,
		UploadedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	return l.save(entries)
}

// Toggle flips the active flag on one file.
func (l *Library) Toggle(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	entry, ok := entries[filename]
	if !ok {
		return fmt.Errorf("context file %q not found", filename)
	}
	entry.Active = !entry.Active
	entries[filename] = entry
	return l.save(entries)
}

// Delete removes a file and its index entry.
func (l *Library) Delete(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	if _, ok := entries[filename]; !ok {
		return fmt.Errorf("context file %q not found", filename)
	}
	if err := os.Remove(filepath.Join(l.dir, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove context file: %w", err)
	}
	delete(entries, filename)
	return l.save(entries)
}

// Entries lists all managed files sorted by name.
func (l *Library) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

// ActiveText extracts and concatenates the text of all active files for
// prompt use. Unreadable files contribute an error note instead of failing
// the whole assembly.
func (l *Library) ActiveText() string {
	var b strings.Builder
	for _, entry := range l.Entries() {
		if !entry.Active {
			continue
		}
		path := filepath.Join(l.dir, entry.Filename)
		var text string
		switch entry.Type {
		case "pdf":
			text = extractPDF(path)
		default:
			text = extractText(path)
		}
		b.WriteString(text)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", 50))
		b.WriteString("\n\n")
	}
	return b.String()
}

func extractText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("テキスト読み込みエラー: %v", err)
	}
	content := string(data)
	runes := []rune(content)
	if len(runes) > maxTextChars {
		content = string(runes[:maxTextChars])
	}
	return fmt.Sprintf("【テキストファイル: %s】\n\n%s", filepath.Base(path), content)
}

func extractPDF(path string) string {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Sprintf("PDF読み込みエラー: %v", err)
	}
	defer func() { _ = f.Close() }()

	var b bytes.Buffer
	fmt.Fprintf(&b, "【PDFファイル: %s】\n\n", filepath.Base(path))

	pages := reader.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "--- Page %d ---\n%s\n\n", i, text)

		if b.Len() > maxPDFChars {
			runes := []rune(b.String())
			if len(runes) > maxPDFChars {
				runes = runes[:maxPDFChars]
			}
			return string(runes) + "\n\n[... 以降省略 ...]"
		}
	}
	return b.String()
}
