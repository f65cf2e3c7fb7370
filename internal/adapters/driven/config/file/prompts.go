package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lexrag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptFile is the name of the user-editable prompt file.
const PromptFile = "prompts.yaml"

// PromptStore loads LLM prompts from a user-editable YAML file.
// Prompts missing from the file fall back to embedded defaults.
//
// The store uses lazy initialisation: the file is only created when first
// accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	loaded    bool
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// They seed prompts.yaml and fill any key the user removes.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are a helpful legal assistant analysing court documents.
Your task is to answer questions based ONLY on the provided context from the document.

Important guidelines:
- Only use information from the provided context
- If the context doesn't contain enough information to answer the question, say so clearly
- Be precise and cite specific details from the context when possible
- Maintain a professional and objective tone
- For legal terms, provide brief explanations if helpful

Context from document:
%s`,

	driven.PromptAnswerMultiDoc: `The context comes from several documents. Each passage is labelled with the document it came from.
When a fact comes from a specific document, name that document in your answer.`,

	driven.PromptSummaryBrief: `You are summarising a legal document. Provide a brief, high-level summary (3-5 sentences) that captures the main purpose and key points of the document.

Text to summarise:
%s

BRIEF SUMMARY:`,

	driven.PromptSummaryDetailed: `You are analysing a legal document. Provide a comprehensive, detailed summary that covers:
- Main subject matter and purpose
- Key arguments or claims
- Important facts and evidence
- Relevant parties involved
- Significant outcomes or decisions
- Any notable legal precedents or citations

Be thorough but organised. Use clear paragraphs to separate different aspects.

Text to summarise:
%s

DETAILED SUMMARY:`,

	driven.PromptSummaryKeyPoints: `You are analysing a legal document. Extract and list the key points in a structured format:

1. Main subject/topic
2. Key parties involved
3. Critical facts and dates
4. Main arguments or claims
5. Important outcomes or decisions
6. Relevant legal principles
7. Any actionable items or next steps

Present each point clearly and concisely.

Text to analyse:
%s

KEY POINTS:`,

	driven.PromptSummaryCombined: `The following text is drawn from %d related documents of the same matter.
Treat them as one body of material and note where the documents differ.`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.lexrag/.
//
// The constructor does not perform any I/O. The directory and default
// file are written lazily on the first Load call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".lexrag")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, writes prompts.yaml with the defaults if it is missing.
// Falls back to the embedded default when the file lacks the key.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if s.loaded {
		prompt, err := s.lookup(name)
		s.mu.RUnlock()
		return prompt, err
	}
	s.mu.RUnlock()

	// Read the file without holding the lock.
	prompts, err := s.readFile()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if err != nil {
			// A broken file degrades to defaults until the next Reload.
			prompts = nil
		}
		s.cache = prompts
		if s.cache == nil {
			s.cache = make(map[string]string)
		}
		s.loaded = true
	}
	return s.lookup(name)
}

// lookup resolves name from the cache or defaults (caller must hold lock).
func (s *PromptStore) lookup(name string) (string, error) {
	if prompt, ok := s.cache[name]; ok && strings.TrimSpace(prompt) != "" {
		return prompt, nil
	}
	if prompt, ok := defaultPrompts[name]; ok {
		return prompt, nil
	}
	return "", fmt.Errorf("load prompt %q: %w", name, os.ErrNotExist)
}

// Reload clears the prompt cache, forcing a fresh read of the file.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.loaded = false
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Path returns the prompt file path.
func (s *PromptStore) Path() string {
	return filepath.Join(s.promptDir, PromptFile)
}

// initialise creates the prompt directory and default file.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		return // Already exists or stat error (ignore)
	}

	data, err := yaml.Marshal(defaultPrompts)
	if err != nil {
		s.initErr = fmt.Errorf("encode default prompts: %w", err)
		return
	}

	header := "# lexrag prompts. Keep the %s and %d placeholders in place.\n"
	if err := os.WriteFile(s.Path(), append([]byte(header), data...), 0600); err != nil {
		s.initErr = fmt.Errorf("create default prompts: %w", err)
	}
}

// readFile parses prompts.yaml.
func (s *PromptStore) readFile() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, err
	}

	var prompts map[string]string
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PromptFile, err)
	}

	for name, prompt := range prompts {
		prompts[name] = strings.TrimSpace(prompt)
	}
	return prompts, nil
}
