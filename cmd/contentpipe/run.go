package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contentpipe/internal/agent"
	"contentpipe/internal/api"
	"contentpipe/internal/brief"
	"contentpipe/internal/config"
	"contentpipe/internal/orchestrator"
	"contentpipe/internal/state"
	"contentpipe/pkg/models"
)

var (
	runPlatforms   []string
	runTypes       []string
	runImage       bool
	runImageSource string
	runPublish     bool
	runChannel     string
	runFactCheck   bool
	runTestMode    bool
	runUseTUI      bool
)

var runCmd = &cobra.Command{
	Use:   "run <brief.yaml>",
	Short: "Run a content brief through the pipeline",
	Long: `Run a content brief file through the production pipeline.

The brief is planned as a workflow of tasks: optionally an image task,
one content task per platform and content type, and one publish task per
pair when publishing is enabled. Each task is matched to a capable agent
and executed in order; produced content and images flow into the publish
tasks automatically.

Flags override the corresponding options in the brief file.

Examples:
  contentpipe run briefs/launch.yaml
  contentpipe run briefs/launch.yaml --publish --channel @mychannel
  contentpipe run briefs/launch.yaml --image --image-source stock
  contentpipe run briefs/launch.yaml --test-mode --fact-check`,
	Args: cobra.ExactArgs(1),
	RunE: runBrief,
}

func init() {
	runCmd.Flags().StringSliceVar(&runPlatforms, "platforms", nil, "Target platforms (overrides brief)")
	runCmd.Flags().StringSliceVar(&runTypes, "types", nil, "Content types (overrides brief)")
	runCmd.Flags().BoolVar(&runImage, "image", false, "Produce an image for the brief")
	runCmd.Flags().StringVar(&runImageSource, "image-source", "", "Image source: ai or stock")
	runCmd.Flags().BoolVar(&runPublish, "publish", false, "Publish immediately after creation")
	runCmd.Flags().StringVar(&runChannel, "channel", "", "Destination channel id")
	runCmd.Flags().BoolVar(&runFactCheck, "fact-check", false, "Fact-check claims before publishing")
	runCmd.Flags().BoolVar(&runTestMode, "test-mode", false, "Dry run: nothing is published")
	runCmd.Flags().BoolVar(&runUseTUI, "tui", false, "Show the live dashboard")
}

func runBrief(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bf, err := brief.Load(args[0])
	if err != nil {
		return err
	}
	applyRunFlags(cmd, bf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return executeBriefFile(ctx, cfg, bf, runUseTUI)
}

// applyRunFlags overlays explicitly set flags onto the loaded brief file.
func applyRunFlags(cmd *cobra.Command, bf *brief.File) {
	flags := cmd.Flags()
	if flags.Changed("platforms") {
		bf.Platforms = runPlatforms
	}
	if flags.Changed("types") {
		bf.ContentTypes = runTypes
	}
	if flags.Changed("image") {
		bf.Options.GenerateImage = runImage
	}
	if flags.Changed("image-source") {
		bf.Options.ImageSource = runImageSource
	}
	if flags.Changed("publish") {
		bf.Options.PublishImmediately = runPublish
	}
	if flags.Changed("channel") {
		bf.Options.ChannelID = runChannel
	}
	if flags.Changed("fact-check") {
		bf.Options.FactCheck = runFactCheck
	}
	if flags.Changed("test-mode") {
		bf.Options.TestMode = runTestMode
	}
}

// executeBriefFile runs one loaded brief end to end: engine setup, workflow
// build, execution, persistence, and summary output.
func executeBriefFile(ctx context.Context, cfg *config.Config, bf *brief.File, useTUI bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	store, err := state.OpenProject(cwd)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate state database: %w", err)
	}

	opts := bf.BuildOptions()

	o := orchestrator.New(orchestrator.Config{
		Media:         store,
		Logger:        orchestrator.NewDebugLoggerForDir(cwd),
		SweepInterval: cfg.Scheduler.SweepInterval,
		EventBuffer:   cfg.Scheduler.EventBuffer,
	})
	registerAgents(o, cfg, opts)
	o.Start()
	defer o.Stop()

	workflowID, err := o.BuildWorkflow(bf.Brief(), bf.Platforms, bf.ContentTypes, opts)
	if err != nil {
		return err
	}
	if opts.FactCheck {
		if _, ok := o.InjectFactCheckTask(workflowID); !ok {
			fmt.Println(color.YellowString("⚠") + " fact-check requested but no fact-check agent is registered; skipping")
		}
	}

	wf, _ := o.GetWorkflow(workflowID)
	startedAt := time.Now()

	var result *models.WorkflowResult
	if useTUI {
		result, err = executeWithTUI(ctx, o, wf, workflowID)
	} else {
		done := streamEvents(o)
		result, err = o.ExecuteWorkflow(ctx, workflowID)
		done()
	}
	if err != nil {
		return err
	}

	persistRun(store, o, workflowID, result, startedAt)
	printSummary(result)

	if result.Status == models.WorkflowStatusFailed {
		return fmt.Errorf("workflow %s finished with %d failed task(s)", result.WorkflowID, result.FailedTasks)
	}
	return nil
}

// registerAgents wires the reference agents into the engine.
func registerAgents(o *orchestrator.Orchestrator, cfg *config.Config, opts models.BuildOptions) {
	completer := buildCompleter(cfg, opts)

	o.RegisterAgent(&models.Agent{
		ID:          "creator",
		DisplayName: "Content Creator",
		Capability: models.Capability{
			SupportedCategories: []models.TaskCategory{models.CategoryPlanned},
			MaxConcurrentTasks:  cfg.Agents.CreatorConcurrency,
			Specializations:     []string{"copywriting"},
			PerformanceScore:    1.0,
		},
	}, agent.NewContentCreator(completer))

	imager := agent.NewImageAgent(cfg.Images.GenerateEndpoint, cfg.Images.StockEndpoint, cfg.Images.StockAPIKey)
	o.RegisterAgent(&models.Agent{
		ID:          "imager",
		DisplayName: "Image Agent",
		Capability: models.Capability{
			SupportedCategories: []models.TaskCategory{models.CategoryComplex},
			MaxConcurrentTasks:  cfg.Agents.ImagerConcurrency,
			Specializations:     []string{"imagery"},
			PerformanceScore:    1.0,
		},
	}, imager)

	o.RegisterAgent(&models.Agent{
		ID:          "publisher",
		DisplayName: "Publisher",
		Capability: models.Capability{
			SupportedCategories: []models.TaskCategory{models.CategoryRealTime},
			MaxConcurrentTasks:  cfg.Agents.PublisherConcurrency,
			Specializations:     []string{"telegram"},
			PerformanceScore:    1.0,
		},
	}, agent.NewPublisher(cfg.Telegram.BotToken, cfg.Telegram.APIBase))

	if opts.FactCheck {
		o.RegisterAgent(&models.Agent{
			ID:          orchestrator.FactCheckAgentID,
			DisplayName: "Fact Checker",
			Capability: models.Capability{
				SupportedCategories: []models.TaskCategory{models.CategoryComplex},
				MaxConcurrentTasks:  1,
				Specializations:     []string{"verification"},
				PerformanceScore:    1.0,
			},
		}, agent.NewFactChecker(completer))
	}
}

// buildCompleter returns the model client for AI-backed agents, or nil for
// offline mode. Test mode is always offline.
func buildCompleter(cfg *config.Config, opts models.BuildOptions) agent.Completer {
	if opts.TestMode {
		return nil
	}
	if cfg.Anthropic.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" && !cfg.Anthropic.UseAWSBedrock {
		return nil
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		fmt.Println(color.YellowString("⚠")+" model client unavailable, running offline:", err)
		return nil
	}
	return api.NewRunner(client)
}

// streamEvents prints engine events to stdout until the returned function
// is called.
func streamEvents(o *orchestrator.Orchestrator) func() {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for {
			select {
			case <-done:
				return
			case event, ok := <-o.Events():
				if !ok {
					return
				}
				printEvent(event)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// printEvent renders one engine event as a progress line.
func printEvent(event orchestrator.OrchestratorEvent) {
	switch event.Type {
	case orchestrator.EventTaskCompleted:
		fmt.Printf("%s %s\n", color.GreenString("✓"), event.TaskName)
	case orchestrator.EventTaskFailed:
		fmt.Printf("%s %s: %s\n", color.RedString("✗"), event.TaskName, event.Error)
	case orchestrator.EventTaskAssigned:
		fmt.Printf("%s %s → %s\n", color.New(color.FgBlue).Sprint("●"), event.TaskName, event.AgentID)
	case orchestrator.EventContentPropagated, orchestrator.EventImageAttached, orchestrator.EventTaskInjected:
		fmt.Printf("  %s\n", event.Message)
	}
}

// persistRun records the run summary and the produced content.
func persistRun(store *state.DB, o *orchestrator.Orchestrator, workflowID string, result *models.WorkflowResult, startedAt time.Time) {
	status := state.RunCompleted
	switch result.Status {
	case models.WorkflowStatusFailed:
		status = state.RunFailed
	case models.WorkflowStatusCancelled:
		status = state.RunCancelled
	}

	if err := store.SaveRun(&state.RunRecord{
		ID:             result.WorkflowID,
		Name:           result.Name,
		Status:         status,
		CompletedTasks: result.CompletedTasks,
		FailedTasks:    result.FailedTasks,
		TotalTasks:     result.TotalTasks,
		Duration:       result.Duration,
		StartedAt:      startedAt,
	}); err != nil {
		fmt.Println(color.YellowString("⚠")+" could not record run:", err)
	}

	wf, ok := o.GetWorkflow(workflowID)
	if !ok {
		return
	}
	briefID := wf.StringContext(models.CtxBriefID)
	if briefID == "" {
		return
	}

	// Persist the first produced content payload. Media URLs were already
	// attached through the store as images completed.
	for _, tr := range result.TaskResults {
		content, found := tr.Output[models.CtxContent].(map[string]any)
		if !found || tr.Status != models.TaskStatusCompleted {
			continue
		}
		title, _ := content[models.ContentTitle].(string)
		body, _ := content[models.ContentText].(string)
		rec := &state.ContentRecord{
			BriefID:  briefID,
			Title:    title,
			Body:     body,
			Hashtags: toStrings(content[models.ContentHashtags]),
		}
		if err := store.SaveContent(rec); err != nil {
			fmt.Println(color.YellowString("⚠")+" could not save content:", err)
		}
		return
	}
}

// toStrings normalizes a hashtag list that may be []string or []any.
func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// printSummary renders the final run report.
func printSummary(result *models.WorkflowResult) {
	fmt.Println()
	if result.Status == models.WorkflowStatusCompleted {
		fmt.Printf("%s %s\n", color.GreenString("✓"), result.Name)
	} else {
		fmt.Printf("%s %s\n", color.RedString("✗"), result.Name)
	}
	fmt.Printf("  %d/%d tasks completed", result.CompletedTasks, result.TotalTasks)
	if result.FailedTasks > 0 {
		fmt.Printf(", %s", color.RedString("%d failed", result.FailedTasks))
	}
	fmt.Printf(" in %s\n", result.Duration.Round(time.Millisecond))

	for _, tr := range result.TaskResults {
		marker := color.GreenString("✓")
		suffix := ""
		if tr.Status != models.TaskStatusCompleted {
			marker = color.RedString("✗")
			if tr.Error != "" {
				suffix = ": " + tr.Error
			}
		}
		fmt.Printf("  %s %s%s\n", marker, tr.Name, suffix)
	}
}
