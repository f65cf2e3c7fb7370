package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.lexrag/config.toml.

Environment variables override the file: the key llm.provider is overridden
by LEXRAG_LLM_PROVIDER. API keys are also read from LEXRAG_OPENAI_API_KEY,
LEXRAG_ANTHROPIC_API_KEY and LEXRAG_GEMINI_API_KEY.

Settings commands never open the stores, so an unreachable backend can be
switched back here.`,
	Annotations: map[string]string{annotationNoStores: "true"},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Validates and stores a single setting. Run "lexrag settings keys" for the list of keys.

Flags go before the key, so negative values need no quoting:
  lexrag settings set retrieval.k -1`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the AI providers are reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsSetCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, settingsView(settings))
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	if settings.LLM.MaxTokens > 0 {
		cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	}
	cmd.Printf("  Timeout: %s\n", settings.Generation.Timeout)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunk size: %d\n", settings.Chunking.Size)
	cmd.Printf("  Chunk overlap: %d\n", settings.Chunking.Overlap)
	cmd.Printf("  Passages per question: %d\n", settings.Retrieval.K)
	cmd.Printf("  Passages per document (multi): %d\n", settings.Retrieval.KPerDoc)
	cmd.Printf("  Timeout: %s\n", settings.Retrieval.Timeout)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Index backend: %s\n", settings.Index.Backend)
	switch settings.Index.Backend {
	case domain.IndexBackendFile:
		cmd.Printf("  Index dir: %s\n", orDefault(settings.Index.Dir))
	case domain.IndexBackendS3:
		cmd.Printf("  S3 bucket: %s\n", settings.Index.S3.Bucket)
		if settings.Index.S3.Endpoint != "" {
			cmd.Printf("  S3 endpoint: %s\n", settings.Index.S3.Endpoint)
		}
	case domain.IndexBackendRedis:
		cmd.Printf("  Redis URL: %s\n", settings.Index.RedisURL)
	}
	cmd.Printf("  Metadata backend: %s\n", settings.Metadata.Backend)
	if settings.Metadata.Backend == domain.MetadataBackendMongo {
		cmd.Printf("  Mongo database: %s\n", settings.Metadata.MongoDatabase)
	}
	cmd.Printf("  Upload dir: %s\n", orDefault(settings.UploadDir))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	if isSecretKey(key) {
		value = maskAPIKey(value)
	}
	if jsonOutput {
		return printJSON(cmd, map[string]string{"key": key, "value": value})
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	keys := settingsService.Keys()
	if jsonOutput {
		return printJSON(cmd, keys)
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	if err := settingsService.ValidateProviders(); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, map[string]bool{"valid": true})
	}
	cmd.Println("Embedding and LLM providers are reachable")
	return nil
}

// settingsView flattens settings for JSON output with secrets masked.
func settingsView(s *domain.AppSettings) map[string]any {
	return map[string]any{
		"embedding": map[string]any{
			"provider":   s.Embedding.Provider,
			"model":      s.Embedding.Model,
			"base_url":   s.Embedding.BaseURL,
			"api_key":    displayAPIKey(s.Embedding.APIKey),
			"configured": s.Embedding.IsConfigured(),
		},
		"llm": map[string]any{
			"provider":        s.LLM.Provider,
			"model":           s.LLM.Model,
			"base_url":        s.LLM.BaseURL,
			"api_key":         displayAPIKey(s.LLM.APIKey),
			"temperature":     s.LLM.Temperature,
			"max_tokens":      s.LLM.MaxTokens,
			"timeout_seconds": int(s.Generation.Timeout.Seconds()),
			"configured":      s.LLM.IsConfigured(),
		},
		"chunking": map[string]any{
			"size":    s.Chunking.Size,
			"overlap": s.Chunking.Overlap,
		},
		"retrieval": map[string]any{
			"k":               s.Retrieval.K,
			"k_per_doc":       s.Retrieval.KPerDoc,
			"timeout_seconds": int(s.Retrieval.Timeout.Seconds()),
		},
		"index": map[string]any{
			"backend":          s.Index.Backend,
			"dir":              s.Index.Dir,
			"embed_batch_size": s.Index.EmbedBatchSize,
			"embed_rps":        s.Index.EmbedRPS,
		},
		"metadata": map[string]any{
			"backend":        s.Metadata.Backend,
			"mongo_database": s.Metadata.MongoDatabase,
		},
		"upload_dir": s.UploadDir,
	}
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func displayAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func isSecretKey(key string) bool {
	switch key {
	case "embedding.api_key", "llm.api_key", "index.s3.secret_key", "index.s3.access_key":
		return true
	default:
		return false
	}
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
