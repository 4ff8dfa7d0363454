package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"creative-assigner/domain/assignment"
	"creative-assigner/domain/dto"
	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSubmitNotAllowed    = errors.New("submit is only available on the review step")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	ErrNothingToSubmit     = errors.New("no populated ad slots to submit")
	ErrSubmissionTransport = errors.New("submission request failed")
	ErrNothingToFix        = errors.New("no failed ad slots to fix")
	ErrPlatformNotChosen   = errors.New("platform is not chosen for this session")
)

const (
	slowSubmissionNotice    = "submission is taking longer than expected; results will appear when it completes"
	partialTransportNotice  = "some platforms could not be reached; their ads are ready to resubmit"
	supersededAttemptNotice = "a newer submission resent some of these ads; their results were ignored"
	auditTimeout            = 5 * time.Second
)

// SessionConfig holds the timing knobs of a session.
type SessionConfig struct {
	DropCooldown      time.Duration
	LockRelease       time.Duration
	SubmitTimeout     time.Duration
	SubmitHardTimeout time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DropCooldown:      assignment.DefaultDropCooldown,
		LockRelease:       assignment.DefaultLockRelease,
		SubmitTimeout:     30 * time.Second,
		SubmitHardTimeout: 5 * time.Minute,
	}
}

// SessionDeps are the collaborators shared by every session. Library, Audit and Sink
// are optional.
type SessionDeps struct {
	Platforms model.PlatformRegistry
	Gateways  map[model.Platform]repository.IAdPlatform
	Library   repository.IAssetLibrary
	Audit     repository.ISubmissionAudit
	Sink      repository.IEventSink
	Clock     assignment.Clock
}

// Session is one operator's run through the wizard. All engine state is guarded by
// mu; events produced while it is held are published after it is released.
type Session struct {
	id         string
	operatorID string
	createdAt  time.Time
	cfg        SessionConfig
	deps       SessionDeps
	log        *logrus.Entry

	gate *assignment.DropGate
	bus  *assignment.EventBus

	mu          sync.Mutex
	catalog     *assignment.Catalog
	usage       *assignment.UsageCounter
	graph       *assignment.Graph
	reconciler  *assignment.Reconciler
	slots       *assignment.SlotManager
	wizard      *assignment.Wizard
	selection   model.Selection
	review      *dto.ReviewSummary
	pending     []model.Event
	submitting  bool
	attempt     int64
	lastOutcome *model.SubmissionOutcome

	inflight sync.WaitGroup
}

func newSession(id, operatorID string, cfg SessionConfig, deps SessionDeps) *Session {
	if deps.Clock == nil {
		deps.Clock = assignment.SystemClock{}
	}
	s := &Session{
		id:         id,
		operatorID: operatorID,
		createdAt:  deps.Clock.Now(),
		cfg:        cfg,
		deps:       deps,
		log:        logger.WithSession(id),
		gate:       assignment.NewDropGate(cfg.DropCooldown, cfg.LockRelease, assignment.WithClock(deps.Clock)),
		bus:        assignment.NewEventBus(),
		catalog:    assignment.NewCatalog(),
		usage:      assignment.NewUsageCounter(),
		graph:      assignment.NewGraph(),
		reconciler: assignment.NewReconciler(),
		wizard:     assignment.NewWizard(),
		selection:  emptySelection(),
	}
	s.slots = assignment.NewSlotManager(s.graph, s.usage, s.catalog, deps.Platforms, s.reconciler, s.queue)

	s.wizard.SetValidator(model.StepPlatformAccount, func() assignment.Validation {
		return assignment.ValidatePlatformStep(s.selection)
	})
	s.wizard.SetValidator(model.StepCampaignPlacement, func() assignment.Validation {
		return assignment.ValidatePlacementStep(s.selection, s.graph, s.deps.Platforms)
	})
	s.wizard.SetValidator(model.StepAssetAssignment, func() assignment.Validation {
		return assignment.ValidateAssignmentStep(s.graph)
	})
	s.wizard.OnEnter(model.StepAssetAssignment, func(model.Step) {
		if n := s.slots.Repair(); n > 0 {
			s.log.WithField("fixes", n).Warn("Repaired open slots on entering assignment")
		}
	})
	s.wizard.OnEnter(model.StepReviewSubmit, func(model.Step) {
		s.review = s.buildReview()
		if len(s.review.Warnings) > 0 {
			s.log.WithField("warnings", len(s.review.Warnings)).Warn("Ads with blank copy")
		}
	})
	return s
}

func (s *Session) ID() string         { return s.id }
func (s *Session) OperatorID() string { return s.operatorID }

// Subscribe registers a listener for this session's events.
func (s *Session) Subscribe(l assignment.Listener) func() {
	return s.bus.Subscribe(l)
}

// SelectAsset adds an asset to the catalog. With a library configured the stored
// record wins over the posted metadata.
func (s *Session) SelectAsset(ctx context.Context, asset model.Asset) (model.Asset, error) {
	if s.deps.Library != nil {
		found, err := s.deps.Library.GetAsset(ctx, asset.ID)
		if err != nil {
			return model.Asset{}, err
		}
		asset = *found
	}
	var out model.Asset
	err := s.mutate(func() error {
		a, err := s.catalog.Add(asset)
		if err != nil {
			return err
		}
		out = a
		s.queue(model.Event{Type: model.EventAssetsChanged, AssetID: a.ID})
		return nil
	})
	return out, err
}

// DeselectAsset removes an asset no slot uses any more.
func (s *Session) DeselectAsset(assetID string) error {
	return s.mutate(func() error {
		if err := s.catalog.Remove(assetID, s.usage); err != nil {
			return err
		}
		s.queue(model.Event{Type: model.EventAssetsChanged, AssetID: assetID})
		return nil
	})
}

// SetPlatforms records the step 1 choices. Placements of platforms no longer chosen
// are deselected.
func (s *Session) SetPlatforms(sel model.Selection) error {
	norm, err := s.normalizeSelection(sel)
	if err != nil {
		return err
	}
	return s.mutate(func() error {
		for _, p := range s.graph.Placements() {
			if norm.Has(p.Platform) {
				continue
			}
			if _, err := s.slots.RemovePlacement(p.ID); err != nil {
				return err
			}
		}
		s.selection = norm
		s.queue(model.Event{Type: model.EventPlacementSelectionChanged})
		return nil
	})
}

func (s *Session) normalizeSelection(sel model.Selection) (model.Selection, error) {
	out := emptySelection()
	seen := make(map[model.Platform]struct{})
	for _, p := range sel.Platforms {
		d, ok := s.deps.Platforms.Get(p)
		if !ok {
			return model.Selection{}, fmt.Errorf("%w: %s", assignment.ErrUnknownPlatform, p)
		}
		if _, dup := seen[d.Name]; dup {
			continue
		}
		seen[d.Name] = struct{}{}
		out.Platforms = append(out.Platforms, d.Name)
	}
	for p, acc := range sel.Accounts {
		if _, ok := seen[p.Normalize()]; ok {
			out.Accounts[p.Normalize()] = acc
		}
	}
	for p, camps := range sel.Campaigns {
		if _, ok := seen[p.Normalize()]; ok {
			out.Campaigns[p.Normalize()] = append([]string(nil), camps...)
		}
	}
	return out, nil
}

// SelectPlacement adds a placement of a chosen platform to the graph.
func (s *Session) SelectPlacement(p model.Placement) error {
	return s.mutate(func() error {
		if !s.selection.Has(p.Platform.Normalize()) {
			return fmt.Errorf("%w: %s", ErrPlatformNotChosen, p.Platform)
		}
		return s.slots.AddPlacement(p)
	})
}

// DeselectPlacement drops a placement and returns the assets no longer used anywhere.
func (s *Session) DeselectPlacement(placementID string) ([]string, error) {
	var orphaned []string
	err := s.mutate(func() error {
		var err error
		orphaned, err = s.slots.RemovePlacement(placementID)
		return err
	})
	return orphaned, err
}

// Drop turns one drag-and-drop event into an assignment. Events rejected by the
// drop gate, and repeats of an asset already in the slot, are reported as ignored
// rather than as errors.
func (s *Session) Drop(assetID string, target assignment.Target) (dto.DropResponse, error) {
	if err := s.gate.Accept(assetID, target.Key()); err != nil {
		s.log.WithFields(logrus.Fields{"asset": assetID, "target": target.Key(), "reason": err.Error()}).Debug("Drop ignored")
		return dto.DropResponse{Reason: err.Error()}, nil
	}

	var slot model.AdSlot
	err := s.mutate(func() error {
		ref, err := s.slots.ResolveTarget(target)
		if err != nil {
			return err
		}
		slot, err = s.slots.Assign(ref, assetID)
		return err
	})
	if errors.Is(err, assignment.ErrDuplicateAsset) {
		s.gate.Done()
		s.log.WithFields(logrus.Fields{"asset": assetID, "slot": slot.Ref().String()}).Warn("Asset already in ad slot")
		return dto.DropResponse{Reason: err.Error(), Slot: &slot}, nil
	}
	if err != nil {
		s.gate.Failed()
		return dto.DropResponse{}, err
	}
	s.gate.Done()
	return dto.DropResponse{Accepted: true, Slot: &slot}, nil
}

// Unassign removes an asset from a slot.
func (s *Session) Unassign(ref model.SlotRef, assetID string) error {
	return s.mutate(func() error {
		return s.slots.Unassign(ref, assetID)
	})
}

// SetSlotText edits ad copy; nil fields keep their current value.
func (s *Session) SetSlotText(ref model.SlotRef, adName, adText *string) (model.AdSlot, error) {
	var out model.AdSlot
	err := s.mutate(func() error {
		cur, ok := s.graph.Slot(ref)
		if !ok {
			return fmt.Errorf("%w: %s", assignment.ErrSlotNotFound, ref)
		}
		name, text := cur.AdName, cur.AdText
		if adName != nil {
			name = *adName
		}
		if adText != nil {
			text = *adText
		}
		var err error
		out, err = s.slots.SetText(ref, name, text)
		return err
	})
	return out, err
}

// Next advances the wizard when the current step validates.
func (s *Session) Next() dto.WizardResponse {
	var resp dto.WizardResponse
	_ = s.mutate(func() error {
		from := s.wizard.Current()
		step, v := s.wizard.Next()
		resp = dto.WizardResponse{Step: step, StepName: step.String(), Moved: step != from, Reason: v.Reason}
		return nil
	})
	return resp
}

// Back moves the wizard one step back.
func (s *Session) Back() dto.WizardResponse {
	var resp dto.WizardResponse
	_ = s.mutate(func() error {
		from := s.wizard.Current()
		step := s.wizard.Back()
		resp = dto.WizardResponse{Step: step, StepName: step.String(), Moved: step != from}
		return nil
	})
	return resp
}

// EnterFixMode narrows the session to its failed slots.
func (s *Session) EnterFixMode() error {
	return s.mutate(func() error {
		if len(assignment.FailedSlots(s.graph)) == 0 {
			return ErrNothingToFix
		}
		s.reconciler.EnterFixMode(s.graph)
		return nil
	})
}

// ExitFixMode restores full visibility.
func (s *Session) ExitFixMode() {
	_ = s.mutate(func() error {
		s.reconciler.ExitFixMode()
		return nil
	})
}

type platformCall struct {
	platform model.Platform
	items    []model.SubmissionItem
	results  []model.SubmissionResult
	err      error
}

type submitReport struct {
	attempt int64
	outcome model.SubmissionOutcome
	slots   []model.SlotOutcome
	stale   bool
	err     error
}

// Submit sends the payload of the graph to the platforms. It waits at most
// SubmitTimeout for the answer; past that it returns a pending outcome while the
// request keeps running, bounded by SubmitHardTimeout. Results for slots that a
// newer attempt sent again are dropped; the rest still apply.
func (s *Session) Submit(ctx context.Context) (model.SubmissionOutcome, error) {
	s.mu.Lock()
	if s.wizard.Current() != model.StepReviewSubmit {
		s.mu.Unlock()
		return model.SubmissionOutcome{}, ErrSubmitNotAllowed
	}
	if s.submitting {
		s.mu.Unlock()
		return model.SubmissionOutcome{}, ErrSubmissionInFlight
	}
	payload := s.graph.ToSubmissionPayload(s.reconciler)
	if payload.Len() == 0 {
		s.mu.Unlock()
		return model.SubmissionOutcome{}, ErrNothingToSubmit
	}
	s.attempt++
	attempt := s.attempt
	payload.Attempt = attempt
	items := payload.Items()
	prev := s.reconciler.BeginSubmission(s.graph, attempt, items)
	s.submitting = true
	fixMode := s.reconciler.InFixMode()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"attempt": attempt, "items": len(items), "fixMode": fixMode}).Info("Submitting ads")
	auditID := s.recordAttempt(ctx, attempt, len(items))

	done := make(chan submitReport, 1)
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SubmitHardTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		rep := s.settle(attempt, prev, s.dispatch(reqCtx, payload))
		s.finish(auditID, rep)
		done <- rep
	}()

	timer := time.NewTimer(s.cfg.SubmitTimeout)
	defer timer.Stop()
	select {
	case rep := <-done:
		return rep.outcome, rep.err
	case <-timer.C:
	case <-ctx.Done():
	}

	s.mu.Lock()
	if s.attempt == attempt {
		s.submitting = false
	}
	s.mu.Unlock()
	s.log.WithField("attempt", attempt).Warn("Submission exceeded client timeout; waiting in background")
	return model.SubmissionOutcome{
		Attempt:   attempt,
		Submitted: len(items),
		Pending:   true,
		Notice:    slowSubmissionNotice,
	}, nil
}

// dispatch fans the payload out to one request per platform.
func (s *Session) dispatch(ctx context.Context, payload model.SubmissionPayload) []platformCall {
	names := make([]model.Platform, 0, len(payload.Platforms))
	for name := range payload.Platforms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	calls := make([]platformCall, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		calls[i] = platformCall{platform: name, items: payload.Platforms[name]}
		g.Go(func() error {
			gw, ok := s.deps.Gateways[name]
			if !ok {
				calls[i].err = fmt.Errorf("%w: no gateway for %s", assignment.ErrUnknownPlatform, name)
				return nil
			}
			calls[i].results, calls[i].err = gw.Submit(ctx, payload.Attempt, calls[i].items)
			return nil
		})
	}
	_ = g.Wait()
	return calls
}

// settle applies the results of one attempt to the graph.
func (s *Session) settle(attempt int64, prev map[model.SlotRef]model.SlotStatus, calls []platformCall) submitReport {
	s.mu.Lock()
	latest := s.attempt
	rep := submitReport{attempt: attempt, outcome: model.SubmissionOutcome{Attempt: attempt}}
	var transport []error
	for _, c := range calls {
		rep.outcome.Submitted += len(c.items)
		if c.err != nil {
			restore := make(map[model.SlotRef]model.SlotStatus, len(c.items))
			for _, it := range c.items {
				if st, ok := prev[it.Ref()]; ok {
					restore[it.Ref()] = st
				}
			}
			n := s.reconciler.RestoreForRetry(s.graph, attempt, restore)
			rep.outcome.Retry += n
			rep.outcome.Superseded += len(c.items) - n
			transport = append(transport, fmt.Errorf("%s: %w", c.platform, c.err))
			s.log.WithFields(logrus.Fields{"platform": c.platform, "error": c.err}).Error("Submission request failed")
			continue
		}
		o, slots := s.reconciler.Reconcile(s.graph, attempt, c.items, c.results)
		rep.outcome.Succeeded += o.Succeeded
		rep.outcome.Failed += o.Failed
		rep.outcome.Unknown += o.Unknown
		rep.outcome.Unmatched += o.Unmatched
		rep.outcome.Superseded += o.Superseded
		rep.slots = append(rep.slots, slots...)
		if o.Unmatched > 0 {
			s.log.WithFields(logrus.Fields{"platform": c.platform, "unmatched": o.Unmatched}).Warn("Results did not match any submitted ad")
		}
	}
	if rep.outcome.Superseded > 0 {
		s.log.WithFields(logrus.Fields{"attempt": attempt, "latest": latest, "superseded": rep.outcome.Superseded}).Warn("Dropping results of a superseded submission")
	}
	rep.stale = rep.outcome.Superseded == rep.outcome.Submitted
	out := &rep.outcome
	out.Partial = out.Succeeded > 0 && out.Failed+out.Unknown+out.Retry > 0
	switch {
	case len(transport) > 0 && len(transport) == len(calls):
		rep.err = fmt.Errorf("%w: %w", ErrSubmissionTransport, errors.Join(transport...))
	case len(transport) > 0:
		out.Notice = partialTransportNotice
	case out.Superseded > 0:
		out.Notice = supersededAttemptNotice
	}

	if attempt == latest {
		s.submitting = false
		last := *out
		s.lastOutcome = &last
	}
	if s.reconciler.InFixMode() && len(assignment.FailedSlots(s.graph)) == 0 && len(s.reconciler.Fixed()) == 0 {
		s.reconciler.ExitFixMode()
	}
	if s.wizard.Current() == model.StepReviewSubmit {
		s.review = s.buildReview()
	}
	s.queue(model.Event{Type: model.EventSubmissionComplete, Attempt: attempt})
	evts := s.takeEvents()
	s.mu.Unlock()
	s.publish(evts)

	s.log.WithFields(logrus.Fields{
		"attempt":   attempt,
		"succeeded": out.Succeeded,
		"failed":    out.Failed,
		"unknown":   out.Unknown,
		"retry":     out.Retry,
	}).Info("Submission settled")
	return rep
}

func (s *Session) recordAttempt(ctx context.Context, attempt int64, n int) int64 {
	if s.deps.Audit == nil {
		return 0
	}
	id, err := s.deps.Audit.RecordAttempt(ctx, &model.SubmissionAttemptRecord{
		SessionID:  s.id,
		OperatorID: s.operatorID,
		Attempt:    attempt,
		Status:     model.AttemptStatusPending,
		ItemCount:  n,
		CreatedAt:  s.deps.Clock.Now().UTC(),
	})
	if err != nil {
		s.log.WithField("error", err).Warn("Failed to record submission attempt")
		return 0
	}
	return id
}

// finish writes the audit trail and forwards the completion event. Failures are logged only.
func (s *Session) finish(auditID int64, rep submitReport) {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if s.deps.Audit != nil && auditID != 0 {
		status := model.AttemptStatusCompleted
		var errMsg *string
		if rep.err != nil {
			status = model.AttemptStatusTransportFailed
			msg := rep.err.Error()
			errMsg = &msg
		}
		if err := s.deps.Audit.CompleteAttempt(ctx, auditID, status, rep.outcome.Succeeded, rep.outcome.Failed, errMsg); err != nil {
			s.log.WithField("error", err).Warn("Failed to complete submission audit")
		}
		if len(rep.slots) > 0 {
			if err := s.deps.Audit.RecordOutcomes(ctx, auditID, rep.slots); err != nil {
				s.log.WithField("error", err).Warn("Failed to record submission outcomes")
			}
		}
	}
	if s.deps.Sink != nil && !rep.stale {
		evt := model.Event{Type: model.EventSubmissionComplete, SessionID: s.id, Attempt: rep.attempt}
		if err := s.deps.Sink.Publish(ctx, evt); err != nil {
			s.log.WithField("error", err).Warn("Failed to forward submission event")
		}
	}
}

// Wait blocks until background submissions have settled.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Close releases the drop gate. Background submissions finish on their own.
func (s *Session) Close() {
	s.gate.Close()
}

// Snapshot projects the session for rendering. In fix mode only failed and fixed
// slots are included, and placements without any are left out.
func (s *Session) Snapshot() dto.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.wizard.Current()
	snap := dto.SessionSnapshot{
		ID:         s.id,
		OperatorID: s.operatorID,
		CreatedAt:  s.createdAt,
		Step:       step,
		StepName:   step.String(),
		Selection:  copySelection(s.selection),
		Assets:     make([]dto.AssetView, 0, s.catalog.Len()),
		Placements: []dto.PlacementView{},
		FixMode:    s.reconciler.InFixMode(),
		Fixed:      s.reconciler.Fixed(),
		Submitting: s.submitting,
		Attempt:    s.attempt,
	}
	if v := s.wizard.CanAdvance(); v.OK {
		snap.CanAdvance = true
	} else {
		snap.BlockedReason = v.Reason
	}
	for _, a := range s.catalog.List() {
		snap.Assets = append(snap.Assets, dto.AssetView{Asset: a, Usage: s.usage.Count(a.ID)})
	}
	for _, p := range s.graph.Placements() {
		view := dto.PlacementView{Placement: p, StatusLabel: p.Status}
		if d, ok := s.deps.Platforms.Get(p.Platform); ok {
			view.StatusLabel = d.Label(p.Status)
		}
		for i, sl := range s.graph.Slots(p.ID) {
			if !s.reconciler.Visible(sl) {
				continue
			}
			view.Slots = append(view.Slots, dto.SlotView{
				AdSlot:      sl,
				Index:       i,
				Open:        sl.IsOpen(),
				StatusLabel: slotStatusLabel(sl.Status),
			})
		}
		if snap.FixMode && len(view.Slots) == 0 {
			continue
		}
		snap.Placements = append(snap.Placements, view)
	}
	if s.lastOutcome != nil {
		o := *s.lastOutcome
		snap.LastOutcome = &o
	}
	if s.review != nil {
		r := *s.review
		snap.Review = &r
	}
	return snap
}

func (s *Session) buildReview() *dto.ReviewSummary {
	payload := s.graph.ToSubmissionPayload(s.reconciler)
	review := &dto.ReviewSummary{Counts: make(map[model.Platform]int), Warnings: []dto.ReviewWarning{}}
	for p, items := range payload.Platforms {
		review.Counts[p] = len(items)
		review.Total += len(items)
	}
	for _, w := range s.graph.Warnings() {
		review.Warnings = append(review.Warnings, dto.ReviewWarning{
			PlacementID: w.Ref.PlacementID,
			SlotID:      w.Ref.SlotID,
			Field:       w.Field,
			Message:     w.Message,
		})
	}
	return review
}

func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	evts := s.takeEvents()
	s.mu.Unlock()
	s.publish(evts)
	return err
}

// queue is the slot manager's emitter; it runs with mu held.
func (s *Session) queue(e model.Event) {
	s.pending = append(s.pending, e)
}

func (s *Session) takeEvents() []model.Event {
	evts := s.pending
	s.pending = nil
	return evts
}

func (s *Session) publish(evts []model.Event) {
	for i := range evts {
		evts[i].SessionID = s.id
	}
	s.bus.Publish(evts...)
}

func emptySelection() model.Selection {
	return model.Selection{
		Platforms: []model.Platform{},
		Accounts:  make(map[model.Platform]string),
		Campaigns: make(map[model.Platform][]string),
	}
}

func copySelection(sel model.Selection) model.Selection {
	out := emptySelection()
	out.Platforms = append(out.Platforms, sel.Platforms...)
	for k, v := range sel.Accounts {
		out.Accounts[k] = v
	}
	for k, v := range sel.Campaigns {
		out.Campaigns[k] = append([]string(nil), v...)
	}
	return out
}

var slotLabels = map[model.SlotStatus]string{
	model.SlotStatusEmpty:      "Drop assets here",
	model.SlotStatusPopulated:  "Ready",
	model.SlotStatusSubmitting: "Submitting",
	model.SlotStatusSucceeded:  "Created",
	model.SlotStatusFailed:     "Failed",
	model.SlotStatusFixed:      "Fixed",
	model.SlotStatusUnknown:    "Result unknown",
}

func slotStatusLabel(st model.SlotStatus) string {
	if l, ok := slotLabels[st]; ok {
		return l
	}
	return strings.ReplaceAll(string(st), "_", " ")
}
