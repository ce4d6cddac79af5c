package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/devtool-substrate/orchestrator/orchestrator"
	"github.com/devtool-substrate/orchestrator/workflow"
)

func main() {
	var (
		mode     = flag.String("mode", "dispatch", "Operation to demonstrate: dispatch or workflow")
		capacity = flag.Int("capacity", 4, "Throttle capacity (global concurrency limit)")
		calls    = flag.String("calls", "", "Comma-separated tool:args pairs for -mode dispatch, e.g. \"datetime:,list_directory:.\"")
		observer = flag.String("observer", "slog", "Observer to use: noop or slog")
	)
	flag.Parse()

	o, err := orchestrator.New(orchestrator.Config{
		Name:             "cmd-orchestrator",
		ThrottleCapacity: *capacity,
		Observer:         *observer,
	})
	if err != nil {
		log.Fatalf("failed to create orchestrator: %v", err)
	}

	registerBuiltinTools(o)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "dispatch":
		runDispatch(ctx, o, *calls)
	case "workflow":
		runWorkflowDemo(ctx, o)
	default:
		fmt.Fprintf(os.Stderr, "unknown -mode %q (want dispatch or workflow)\n", *mode)
		os.Exit(1)
	}
}

func runDispatch(ctx context.Context, o *orchestrator.Orchestrator, raw string) {
	if raw == "" {
		fmt.Fprintln(os.Stderr, "Usage: orchestrator -mode dispatch -calls \"tool:args,tool:args\"")
		os.Exit(1)
	}

	var toolCalls []orchestrator.ToolCall
	for _, pair := range strings.Split(raw, ",") {
		name, args, _ := strings.Cut(pair, ":")
		toolCalls = append(toolCalls, orchestrator.ToolCall{Name: name, Args: args})
	}

	results, err := o.DispatchParallel(ctx, toolCalls)
	if err != nil {
		log.Fatalf("dispatch failed: %v", err)
	}

	for i, r := range results {
		if r.Ok {
			fmt.Printf("[%d] %s: %s\n", i, toolCalls[i].Name, r.Content)
		} else {
			fmt.Printf("[%d] %s: error: %s\n", i, toolCalls[i].Name, r.Error)
		}
	}
}

// runWorkflowDemo runs the diamond-shaped workflow used throughout the
// design's worked examples: A fans out to two parallel-capable steps B
// and C, which both feed into D.
func runWorkflowDemo(ctx context.Context, o *orchestrator.Orchestrator) {
	wf := workflow.Workflow{
		Name: "demo-diamond",
		Steps: []workflow.Step{
			{
				Name: "discover",
				Run: func(ctx context.Context, wfCtx *workflow.Context) (workflow.StepOutcome, error) {
					wfCtx.Set("discovered", true)
					return workflow.StepOutcome{Success: true}, nil
				},
			},
			{
				Name:            "build",
				Predecessors:    []string{"discover"},
				ParallelCapable: true,
				Run: func(ctx context.Context, wfCtx *workflow.Context) (workflow.StepOutcome, error) {
					return workflow.StepOutcome{Success: true}, nil
				},
			},
			{
				Name:            "lint",
				Predecessors:    []string{"discover"},
				ParallelCapable: true,
				Run: func(ctx context.Context, wfCtx *workflow.Context) (workflow.StepOutcome, error) {
					return workflow.StepOutcome{Success: true}, nil
				},
			},
			{
				Name:         "report",
				Predecessors: []string{"build", "lint"},
				Run: func(ctx context.Context, wfCtx *workflow.Context) (workflow.StepOutcome, error) {
					return workflow.StepOutcome{Success: true}, nil
				},
			},
		},
	}

	result, err := o.RunWorkflow(ctx, wf)
	if err != nil {
		log.Fatalf("workflow run failed: %v", err)
	}

	if result.Ok {
		fmt.Printf("workflow succeeded: %s\n", result.Content)
	} else {
		fmt.Printf("workflow failed: %s\n", result.Error)
	}
}
