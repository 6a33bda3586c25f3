package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"forgefolio/internal/llm"
	"forgefolio/internal/llm/gemini"
	"forgefolio/internal/llm/groq"
	"forgefolio/internal/portfolio"
	"forgefolio/internal/shared/config"
)

type options struct {
	profilePath string
	sampleID    string
	templateID  string
	run         bool
	outPath     string
	provider    string
	model       string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{provider: cfg.LLMProvider, model: cfg.LLMModel}

	cmd := &cobra.Command{
		Use:   "prompttest",
		Short: "Render a portfolio prompt and optionally run it against the provider",
		Long: `prompttest renders the prompt the service would send for a profile.

The profile is a JSON file with the same shape as the POST /generate body, or
one of the built-in sample profiles. With --run the prompt is sent to the
configured provider and the sectioned result is printed as JSON.

Example:
  prompttest --sample software_developer
  prompttest --profile jane.json --template creative_artist --run --out raw.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.profilePath, "profile", "", "Path to a JSON profile")
	f.StringVar(&opts.sampleID, "sample", "", "Built-in sample profile id")
	f.StringVar(&opts.templateID, "template", "", "Template id (inferred from the profession when empty)")
	f.BoolVar(&opts.run, "run", false, "Send the prompt to the provider")
	f.StringVar(&opts.outPath, "out", "", "Write the raw model output to this file")
	f.StringVar(&opts.provider, "provider", opts.provider, "LLM provider (groq or gemini)")
	f.StringVar(&opts.model, "model", opts.model, "LLM model")
	cmd.MarkFlagsMutuallyExclusive("profile", "sample")
	cmd.MarkFlagsOneRequired("profile", "sample")
	return cmd
}

func run(ctx context.Context, out io.Writer, cfg config.Config, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := portfolio.LoadCatalog()
	if err != nil {
		return err
	}

	raw, err := loadProfile(catalog, opts)
	if err != nil {
		return err
	}
	if opts.templateID != "" {
		raw["template_id"] = opts.templateID
	}

	req, err := portfolio.Validate(raw)
	if err != nil {
		return errors.Wrap(err, "invalid profile")
	}
	tmpl := catalog.Resolve(req.TemplateID, req.Profession)
	prompt := portfolio.BuildPrompt(req, tmpl)

	fmt.Fprintf(out, "# template: %s\n\n## system\n%s\n\n## user\n%s\n", tmpl.ID, prompt.System, prompt.User)
	if !opts.run {
		return nil
	}

	client, err := buildClient(ctx, cfg, opts)
	if err != nil {
		return err
	}
	text, err := client.Complete(ctx, prompt)
	if err != nil {
		return errors.Wrap(err, "complete")
	}
	if opts.outPath != "" {
		if err := os.WriteFile(opts.outPath, []byte(text), 0o644); err != nil {
			return errors.Wrap(err, "write raw output")
		}
	}

	content := portfolio.FormatResponse(text)
	content.Template = tmpl.ID
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	fmt.Fprintln(out, "\n## result")
	return enc.Encode(content)
}

func loadProfile(catalog *portfolio.Catalog, opts *options) (map[string]any, error) {
	if opts.sampleID != "" {
		for _, s := range catalog.Samples() {
			if s.ID != opts.sampleID {
				continue
			}
			return map[string]any{
				"name":       s.Name,
				"profession": s.Profession,
				"experience": s.Experience,
				"skills":     toAnySlice(s.Skills),
				"projects":   toAnySlice(s.Projects),
			}, nil
		}
		return nil, errors.Errorf("unknown sample profile %q", opts.sampleID)
	}

	data, err := os.ReadFile(opts.profilePath)
	if err != nil {
		return nil, errors.Wrap(err, "read profile")
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse profile")
	}
	return raw, nil
}

func buildClient(ctx context.Context, cfg config.Config, opts *options) (llm.Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.provider))
	settings := llm.Settings{
		Model:   opts.model,
		BaseURL: cfg.LLMBaseURL,
		Timeout: cfg.LLMTimeout,
		APIKey:  cfg.LLMAPIKey,
	}
	if provider != cfg.LLMProvider {
		settings.APIKey = config.APIKeyFor(provider)
	}
	switch provider {
	case config.ProviderGroq:
		return groq.NewClient(settings)
	case config.ProviderGemini:
		return gemini.NewClient(ctx, settings)
	default:
		return nil, errors.Errorf("unknown provider %q", opts.provider)
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
