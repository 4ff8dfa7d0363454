package assignment

import (
	"fmt"

	"creative-assigner/domain/model"
)

// Validation is the outcome of a step gate. A refused gate is a value, not an error.
type Validation struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func valid() Validation { return Validation{OK: true} }

func invalid(format string, args ...any) Validation {
	return Validation{Reason: fmt.Sprintf(format, args...)}
}

// Validator checks whether the wizard may leave a step going forward.
type Validator func() Validation

// PrepareFunc runs when a step is entered.
type PrepareFunc func(step model.Step)

// Wizard is the linear four-step state machine with back navigation.
type Wizard struct {
	step       model.Step
	validators map[model.Step]Validator
	prepare    map[model.Step][]PrepareFunc
}

func NewWizard() *Wizard {
	return &Wizard{
		step:       model.FirstStep,
		validators: make(map[model.Step]Validator),
		prepare:    make(map[model.Step][]PrepareFunc),
	}
}

func (w *Wizard) SetValidator(step model.Step, v Validator) {
	w.validators[step] = v
}

// OnEnter registers a prepare hook for step.
func (w *Wizard) OnEnter(step model.Step, fn PrepareFunc) {
	w.prepare[step] = append(w.prepare[step], fn)
}

func (w *Wizard) Current() model.Step { return w.step }

// Validate runs the gate of a step. Steps without a validator pass.
func (w *Wizard) Validate(step model.Step) Validation {
	v, ok := w.validators[step]
	if !ok {
		return valid()
	}
	return v()
}

// CanAdvance reports whether Next would move forward from the current step. The
// gates of every step up to the current one must still pass, since later steps can
// undo what an earlier gate checked.
func (w *Wizard) CanAdvance() Validation {
	if w.step >= model.LastStep {
		return invalid("already on the last step")
	}
	for step := model.FirstStep; step <= w.step; step++ {
		if v := w.Validate(step); !v.OK {
			return v
		}
	}
	return valid()
}

// Next advances when the current step validates and returns the resulting step.
func (w *Wizard) Next() (model.Step, Validation) {
	v := w.CanAdvance()
	if !v.OK {
		return w.step, v
	}
	w.step++
	w.enter()
	return w.step, v
}

// Back moves one step back; it is never gated.
func (w *Wizard) Back() model.Step {
	if w.step > model.FirstStep {
		w.step--
		w.enter()
	}
	return w.step
}

// Reset returns to the first step.
func (w *Wizard) Reset() {
	w.step = model.FirstStep
	w.enter()
}

func (w *Wizard) enter() {
	for _, fn := range w.prepare[w.step] {
		fn(w.step)
	}
}

// ValidatePlatformStep requires at least one chosen platform.
func ValidatePlatformStep(sel model.Selection) Validation {
	if len(sel.Platforms) == 0 {
		return invalid("choose at least one platform")
	}
	return valid()
}

// ValidatePlacementStep requires at least one selected placement per chosen platform.
func ValidatePlacementStep(sel model.Selection, g *Graph, platforms model.PlatformRegistry) Validation {
	if len(sel.Platforms) == 0 {
		return invalid("choose at least one platform")
	}
	for _, p := range sel.Platforms {
		if len(g.PlacementsFor(p)) == 0 {
			noun := "placement"
			if d, ok := platforms.Get(p); ok {
				noun = d.PlacementNoun
			}
			return invalid("select at least one %s for %s", noun, p)
		}
	}
	return valid()
}

// ValidateAssignmentStep requires at least one populated ad slot.
func ValidateAssignmentStep(g *Graph) Validation {
	if len(g.PopulatedSlots()) == 0 {
		return invalid("assign at least one asset to an ad")
	}
	return valid()
}
