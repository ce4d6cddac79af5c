package main

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/devtool-substrate/orchestrator/orchestrator"
	"github.com/devtool-substrate/orchestrator/tools"
)

// registerBuiltinTools wires a handful of illustrative external
// collaborators (§6 of the design: test-executor and build-driver
// collaborators are invoked by callers as opaque (cancel) -> result
// operations; the core never parses their output). These are stand-ins
// for a real test service's subprocess drivers, not the drivers
// themselves.
func registerBuiltinTools(o *orchestrator.Orchestrator) {
	must(o.RegisterTool("datetime", handleDatetime))
	must(o.RegisterTool("read_file", handleReadFile))
	must(o.RegisterTool("list_directory", handleListDirectory))
	must(o.RegisterTool("run_command", handleRunCommand))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func handleDatetime(_ context.Context, _ string) (tools.Result, error) {
	return tools.Result{Ok: true, Content: time.Now().Format(time.RFC3339)}, nil
}

func handleReadFile(_ context.Context, path string) (tools.Result, error) {
	if path == "" {
		return tools.Result{Ok: false, Error: "path is required"}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tools.Result{Ok: false, Error: err.Error()}, nil
	}
	return tools.Result{Ok: true, Content: string(data)}, nil
}

func handleListDirectory(_ context.Context, path string) (tools.Result, error) {
	if path == "" {
		path = "."
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return tools.Result{Ok: false, Error: err.Error()}, nil
	}

	var b strings.Builder
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return tools.Result{Ok: true, Content: b.String(), Metadata: map[string]any{"entry_count": len(entries)}}, nil
}

// handleRunCommand stands in for a test-executor or build-driver
// collaborator: it shells out, awaits completion or cancellation, and
// terminates the subprocess if cancel fires first. A real test or build
// service owns its own stdout parsing; this tool returns raw output.
func handleRunCommand(ctx context.Context, args string) (tools.Result, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return tools.Result{Ok: false, Error: "command is required"}, nil
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return tools.Result{
			Ok:       false,
			Error:    err.Error(),
			Content:  string(output),
			Metadata: map[string]any{"exit_code": exitCode},
		}, nil
	}
	return tools.Result{
		Ok:       true,
		Content:  string(output),
		Metadata: map[string]any{"exit_code": 0},
	}, nil
}
