// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.lexrag.
//
// Adapters:
//   - ConfigStore: TOML-based configuration with LEXRAG_* environment overrides
//   - PromptStore: YAML prompt templates with embedded defaults
package file
