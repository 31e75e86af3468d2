package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"voxnav/internal/form"
	"voxnav/internal/nav"
	"voxnav/internal/oracle"
)

// Turn is the per-utterance input to classification.
type Turn struct {
	Utterance    string
	Destinations []nav.Destination
	CurrentID    string
}

type stage struct {
	name string
	run  func(ctx context.Context, turn Turn) (*Action, error)
}

// Classifier resolves utterances through an ordered cascade:
// submission check, multi-field extraction, list-mutation detection,
// navigation detection, then the deterministic keyword fallback.
//
// Each oracle-backed stage short-circuits on a definitive result. A stage
// error or unusable oracle output is recovered locally and the cascade
// continues, so Classify always returns exactly one action even with the
// oracle completely unreachable.
type Classifier struct {
	oracle  oracle.Client
	log     *zap.Logger
	metrics *Metrics
	stages  []stage
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the classifier logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Classifier) { c.log = log }
}

// WithMetrics wires prometheus counters into the cascade.
func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) { c.metrics = m }
}

// NewClassifier builds a classifier. A nil client disables the oracle
// stages; classification then runs on the keyword fallback alone.
func NewClassifier(client oracle.Client, opts ...Option) *Classifier {
	c := &Classifier{
		oracle: client,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if client != nil {
		c.stages = []stage{
			{"submission", c.checkSubmission},
			{"form-fields", c.extractFormFields},
			{"list-mutation", c.detectListMutation},
			{"navigation", c.detectNavigation},
		}
	}

	return c
}

// Classify resolves the turn to exactly one action. It never returns an
// error: oracle failures degrade to the next stage and ultimately to the
// keyword matcher.
func (c *Classifier) Classify(ctx context.Context, turn Turn) Action {
	for _, st := range c.stages {
		action, err := st.run(ctx, turn)
		if err != nil {
			c.metrics.oracleFailure(st.name)
			c.log.Warn("classifier stage degraded",
				zap.String("stage", st.name),
				zap.Error(err))
			continue
		}
		if action != nil {
			c.metrics.stageHit(st.name)
			c.log.Debug("classifier stage resolved",
				zap.String("stage", st.name),
				zap.String("kind", string(action.Kind)))
			return *action
		}
	}

	if dest, ok := nav.Match(turn.Utterance, turn.Destinations); ok {
		c.metrics.stageHit("keyword-fallback")
		c.log.Debug("keyword fallback resolved",
			zap.String("destination", dest.ID))
		action := Navigate(turn.Utterance, dest)
		return action
	}

	c.metrics.stageHit("no-match")
	return NoMatch(turn.Utterance)
}

// complete wraps an oracle call with latency measurement.
func (c *Classifier) complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	resp, err := c.oracle.CompleteWithSystem(ctx, system, user)
	c.metrics.observeLatency(time.Since(start))
	return resp, err
}

// checkSubmission asks a closed yes/no question: does this utterance
// express intent to submit the form? Only the literal SUBMIT token counts
// as yes; everything else, including verbose answers, counts as no.
func (c *Classifier) checkSubmission(ctx context.Context, turn Turn) (*Action, error) {
	resp, err := c.complete(ctx, submissionSystemPrompt, buildSubmissionPrompt(turn.Utterance))
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(resp), "SUBMIT") {
		action := Submit(turn.Utterance)
		return &action, nil
	}
	return nil, nil
}

// oracleFormFields mirrors the extraction schema: explicit nulls mark
// fields the utterance never mentioned.
type oracleFormFields struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Subject *string `json:"subject"`
	Message *string `json:"message"`
	Submit  bool    `json:"submit"`
}

// extractFormFields pulls every mentioned form field out of the utterance
// in one oracle call. Malformed output is a non-result, never an error:
// the cascade must survive arbitrary oracle text.
func (c *Classifier) extractFormFields(ctx context.Context, turn Turn) (*Action, error) {
	resp, err := c.complete(ctx, formExtractionSystemPrompt, buildFormExtractionPrompt(turn.Utterance))
	if err != nil {
		return nil, err
	}

	raw := oracle.StripFences(resp)
	if strings.EqualFold(strings.TrimSpace(raw), "NONE") {
		return nil, nil
	}

	jsonStr := oracle.ExtractJSON(raw)
	if jsonStr == "" {
		c.log.Debug("form extraction returned no JSON", zap.String("response", truncate(raw, 200)))
		return nil, nil
	}

	var fields oracleFormFields
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		c.log.Debug("form extraction JSON malformed", zap.Error(err))
		return nil, nil
	}

	if fields.Submit {
		action := Submit(turn.Utterance)
		return &action, nil
	}

	byName := map[string]*string{
		"name":    fields.Name,
		"email":   fields.Email,
		"subject": fields.Subject,
		"message": fields.Message,
	}

	var entries []FieldEntry
	for _, field := range form.FieldNames {
		p := byName[field]
		if p == nil || *p == "" || strings.EqualFold(*p, "null") {
			continue
		}
		value := form.CleanValue(*p)
		if field == "subject" {
			if subject, ok := form.NormalizeSubject(value); ok {
				value = string(subject)
			}
		}
		entries = append(entries, FieldEntry{Field: field, Value: value})
	}

	switch len(entries) {
	case 0:
		return nil, nil
	case 1:
		action := NewFormMutation(turn.Utterance, FormMutation{Op: FormFillOne, Entries: entries})
		return &action, nil
	default:
		action := NewFormMutation(turn.Utterance, FormMutation{Op: FormFillMany, Entries: entries})
		return &action, nil
	}
}

// oracleListMutation mirrors the list-mutation schema.
type oracleListMutation struct {
	Action string `json:"action"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// detectListMutation classifies filter/sort/search/clear commands against
// a small closed schema. Anything that fails validation is a non-result.
func (c *Classifier) detectListMutation(ctx context.Context, turn Turn) (*Action, error) {
	resp, err := c.complete(ctx, listMutationSystemPrompt, buildListMutationPrompt(turn.Utterance))
	if err != nil {
		return nil, err
	}

	raw := oracle.StripFences(resp)
	jsonStr := oracle.ExtractJSON(raw)
	if jsonStr == "" {
		return nil, nil
	}

	var parsed oracleListMutation
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		c.log.Debug("list mutation JSON malformed", zap.Error(err))
		return nil, nil
	}
	if !ValidListOp(parsed.Action) {
		return nil, nil
	}

	action := NewListMutation(turn.Utterance, ListMutation{
		Op:    ListOp(parsed.Action),
		Field: parsed.Field,
		Value: parsed.Value,
	})
	return &action, nil
}

// detectNavigation asks for one destination id from the closed list.
// Accepts an exact id, then any known id appearing inside a verbose
// answer, then the NONE sentinel (terminal no-match). Anything else falls
// through to the keyword matcher.
func (c *Classifier) detectNavigation(ctx context.Context, turn Turn) (*Action, error) {
	resp, err := c.complete(ctx, navigationSystemPrompt, buildNavigationPrompt(turn.Utterance, turn.Destinations))
	if err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(resp)

	for _, d := range turn.Destinations {
		if raw == d.ID {
			action := Navigate(turn.Utterance, d)
			return &action, nil
		}
	}

	for _, d := range turn.Destinations {
		if strings.Contains(raw, d.ID) {
			action := Navigate(turn.Utterance, d)
			return &action, nil
		}
	}

	if strings.Contains(strings.ToLower(raw), "none") {
		action := NoMatch(turn.Utterance)
		return &action, nil
	}

	return nil, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
