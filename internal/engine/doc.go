// Package engine implements the wizard core: the step state machine, the
// navigation policy, the validation gateway, the form orchestrator that
// turns user intents into validated transitions, and the registry that
// manages flow sessions
package engine
