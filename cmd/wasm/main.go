//go:build js && wasm

// Command wasm exposes the planner to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	planTrajectory(jsonString) -> jsonString
//
// The input and output are JSON-encoded PlanningInput and PlanResult
// respectively, matching the same contract used by the CLI. The planner runs with
// the built-in default configuration.
package main

import (
	"syscall/js"

	"github.com/cxd309/ptg-engine/internal/config"
	"github.com/cxd309/ptg-engine/internal/engine"
)

func main() {
	js.Global().Set("planTrajectory", js.FuncOf(planTrajectory))
	select {} // keep the WASM module alive until the page is closed
}

func planTrajectory(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunJSON(args[0].String(), config.Default(), nil)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
