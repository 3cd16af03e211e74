package main

import (
	"lamp"
	"lamp/internal/dispatch"
	"lamp/pkg/lamptypes"
)

// dispatchLine runs one input line for actor and reports a failure back
// through actor.Error. Each call gets a fresh ExecutionContext so one
// actor's successive commands never see stale parsed arguments.
func dispatchLine(lm *lamp.Lamp, actor lamptypes.Actor, raw string) {
	ctx := lamptypes.NewExecutionContext(actor)
	outcome, err := lm.Dispatch(ctx, raw)
	if err != nil {
		actor.Error(err.Error())
		return
	}
	if outcome.Kind == dispatch.Failed && outcome.Err != nil {
		actor.Error(outcome.Err.Error())
	}
}
