package assignment

import (
	"sort"

	"creative-assigner/domain/model"
)

const defaultFailureMessage = "ad creation failed"

// Reconciler maps submission results back onto slots and owns the fix-errors mode.
type Reconciler struct {
	fixMode bool
	fixed   map[model.SlotRef]struct{}
	// latest attempt that sent each slot still waiting for its result
	sentBy map[model.SlotRef]int64
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		fixed:  make(map[model.SlotRef]struct{}),
		sentBy: make(map[model.SlotRef]int64),
	}
}

// BeginSubmission marks the submitted slots as submitting and returns their previous
// status so a transport failure can put them back.
func (r *Reconciler) BeginSubmission(g *Graph, attempt int64, items []model.SubmissionItem) map[model.SlotRef]model.SlotStatus {
	prev := make(map[model.SlotRef]model.SlotStatus, len(items))
	for _, it := range items {
		s := g.slot(it.Ref())
		if s == nil {
			continue
		}
		r.sentBy[it.Ref()] = attempt
		prev[it.Ref()] = s.Status
		if s.Status == model.SlotStatusSubmitting {
			// resent after a timed-out attempt
			prev[it.Ref()] = model.SlotStatusPopulated
		}
		s.Status = model.SlotStatusSubmitting
	}
	return prev
}

// Current reports whether attempt is the latest one that sent the slot.
func (r *Reconciler) Current(ref model.SlotRef, attempt int64) bool {
	return r.sentBy[ref] == attempt
}

// RestoreForRetry undoes BeginSubmission after the request itself failed, leaving the
// slots ready to be submitted again. Slots a newer attempt sent again are left alone.
// It returns the number of slots put back.
func (r *Reconciler) RestoreForRetry(g *Graph, attempt int64, prev map[model.SlotRef]model.SlotStatus) int {
	n := 0
	for ref, status := range prev {
		if !r.Current(ref, attempt) {
			continue
		}
		delete(r.sentBy, ref)
		s := g.slot(ref)
		if s == nil || s.Status != model.SlotStatusSubmitting {
			continue
		}
		s.Status = status
		n++
	}
	return n
}

// Reconcile applies results to the submitted items. A result is matched by
// platform:placementId:slotIndex, then by platform:placementId, then, only when no
// result carries a key at all, by position. Items left unmatched become unknown.
// Items that a newer attempt sent again are matched but not applied; they are
// counted as superseded.
func (r *Reconciler) Reconcile(g *Graph, attempt int64, items []model.SubmissionItem, results []model.SubmissionResult) (model.SubmissionOutcome, []model.SlotOutcome) {
	keyed := make(map[string]model.SubmissionResult, len(results))
	var keyless []model.SubmissionResult
	for _, res := range results {
		k := model.NormalizeResultKey(res.Key)
		if k == "" {
			keyless = append(keyless, res)
			continue
		}
		keyed[k] = res
	}
	positional := len(keyed) == 0

	used := make(map[string]struct{}, len(keyed))
	outcome := model.SubmissionOutcome{Submitted: len(items)}
	slots := make([]model.SlotOutcome, 0, len(items))

	for i, it := range items {
		var (
			res     model.SubmissionResult
			matched bool
		)
		if v, ok := keyed[it.Key()]; ok {
			res, matched = v, true
			used[it.Key()] = struct{}{}
		} else if v, ok := keyed[model.PlacementKey(it.Platform, it.PlacementID)]; ok {
			res, matched = v, true
			used[model.PlacementKey(it.Platform, it.PlacementID)] = struct{}{}
		} else if positional && i < len(keyless) {
			res, matched = keyless[i], true
		}

		if !r.Current(it.Ref(), attempt) {
			outcome.Superseded++
			continue
		}
		delete(r.sentBy, it.Ref())

		so := model.SlotOutcome{Item: it}
		switch {
		case !matched:
			so.Status = model.SlotStatusUnknown
			outcome.Unknown++
		case res.Success:
			so.Status = model.SlotStatusSucceeded
			so.AdID = res.AdID
			outcome.Succeeded++
		default:
			so.Status = model.SlotStatusFailed
			so.Error = res.Error
			if so.Error == "" {
				so.Error = defaultFailureMessage
			}
			outcome.Failed++
		}
		slots = append(slots, so)

		delete(r.fixed, it.Ref())
		if s := g.slot(it.Ref()); s != nil {
			s.Status = so.Status
			s.AdID = so.AdID
			s.Error = so.Error
		}
	}

	outcome.Unmatched = len(keyed) - len(used)
	if positional && len(keyless) > len(items) {
		outcome.Unmatched += len(keyless) - len(items)
	}
	outcome.Partial = outcome.Succeeded > 0 && outcome.Failed+outcome.Unknown > 0
	return outcome, slots
}

// EnterFixMode narrows visibility to failed slots. The fixed set starts empty apart
// from slots already corrected before the mode was entered.
func (r *Reconciler) EnterFixMode(g *Graph) {
	r.fixMode = true
	r.fixed = make(map[model.SlotRef]struct{})
	for _, s := range g.PopulatedSlots() {
		if s.Status == model.SlotStatusFixed {
			r.fixed[s.Ref()] = struct{}{}
		}
	}
}

// ExitFixMode clears the filter and the fixed set.
func (r *Reconciler) ExitFixMode() {
	r.fixMode = false
	r.fixed = make(map[model.SlotRef]struct{})
}

func (r *Reconciler) InFixMode() bool { return r.fixMode }

// MarkFixed records that a failed slot was touched by a mutation.
func (r *Reconciler) MarkFixed(ref model.SlotRef) {
	r.fixed[ref] = struct{}{}
}

// Forget drops a slot that no longer exists.
func (r *Reconciler) Forget(ref model.SlotRef) {
	delete(r.fixed, ref)
	delete(r.sentBy, ref)
}

// Fixed lists the slots queued for the next fix-mode payload.
func (r *Reconciler) Fixed() []model.SlotRef {
	out := make([]model.SlotRef, 0, len(r.fixed))
	for ref := range r.fixed {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlacementID != out[j].PlacementID {
			return out[i].PlacementID < out[j].PlacementID
		}
		return out[i].SlotID < out[j].SlotID
	})
	return out
}

// Visible reports whether a slot is shown under the current filter.
func (r *Reconciler) Visible(s model.AdSlot) bool {
	if !r.fixMode {
		return true
	}
	if s.Status == model.SlotStatusFailed || s.Status == model.SlotStatusFixed {
		return true
	}
	_, ok := r.fixed[s.Ref()]
	return ok
}

// IncludeInPayload implements SlotFilter: in fix mode only corrected slots are resent.
func (r *Reconciler) IncludeInPayload(s model.AdSlot) bool {
	if !r.fixMode {
		return true
	}
	_, ok := r.fixed[s.Ref()]
	return ok && s.Status == model.SlotStatusFixed
}

// FailedSlots lists slots currently marked failed.
func FailedSlots(g *Graph) []model.AdSlot {
	var out []model.AdSlot
	for _, s := range g.PopulatedSlots() {
		if s.Status == model.SlotStatusFailed {
			out = append(out, s)
		}
	}
	return out
}
