package intent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxnav/internal/form"
	"voxnav/internal/nav"
)

// scriptedOracle replays a fixed sequence of completions, one per oracle
// call, in cascade order.
type scriptedOracle struct {
	t       *testing.T
	replies []scriptedReply
	calls   int
}

type scriptedReply struct {
	resp string
	err  error
}

func (s *scriptedOracle) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *scriptedOracle) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	if s.calls >= len(s.replies) {
		s.t.Fatalf("unexpected oracle call #%d", s.calls+1)
	}
	r := s.replies[s.calls]
	s.calls++
	return r.resp, r.err
}

// failingOracle errors on every call.
type failingOracle struct{}

func (failingOracle) Complete(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("oracle unreachable")
}

func (failingOracle) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	return "", fmt.Errorf("oracle unreachable")
}

func classify(t *testing.T, replies []scriptedReply, utterance string) Action {
	t.Helper()
	oracle := &scriptedOracle{t: t, replies: replies}
	c := NewClassifier(oracle)
	action := c.Classify(context.Background(), Turn{
		Utterance:    utterance,
		Destinations: nav.DefaultCatalog().Destinations(),
		CurrentID:    "home",
	})
	assert.Equal(t, len(replies), oracle.calls, "cascade should stop after the resolving stage")
	return action
}

func TestClassify_SubmissionShortCircuits(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "SUBMIT"},
	}, "send the form")

	require.Equal(t, KindFormMutation, action.Kind)
	require.NotNil(t, action.Form)
	assert.Equal(t, FormSubmit, action.Form.Op)
}

func TestClassify_SubmissionVerboseAnswerIsNo(t *testing.T) {
	// Anything but the literal token is a no; the cascade keeps going.
	action := classify(t, []scriptedReply{
		{resp: "Yes, the user wants to SUBMIT the form."},
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: "contact"},
	}, "send it off")

	assert.Equal(t, KindNavigation, action.Kind)
}

func TestClassify_MultiFieldExtraction(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "```json\n{\"name\": \"as John Smith\", \"email\": \"john@example.com\", \"subject\": null, \"message\": null, \"submit\": false}\n```"},
	}, "fill name as John Smith and email as john@example.com")

	require.Equal(t, KindFormMutation, action.Kind)
	require.NotNil(t, action.Form)
	assert.Equal(t, FormFillMany, action.Form.Op)
	require.Len(t, action.Form.Entries, 2)

	// Field order follows the form layout and connector words are stripped.
	assert.Equal(t, FieldEntry{Field: "name", Value: "John Smith"}, action.Form.Entries[0])
	assert.Equal(t, FieldEntry{Field: "email", Value: "john@example.com"}, action.Form.Entries[1])
}

func TestClassify_SingleFieldNormalizesSubject(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: `{"name": null, "email": null, "subject": "I have a technical issue", "message": null, "submit": false}`},
	}, "set the subject to technical issue")

	require.Equal(t, KindFormMutation, action.Kind)
	assert.Equal(t, FormFillOne, action.Form.Op)
	require.Len(t, action.Form.Entries, 1)
	assert.Equal(t, FieldEntry{Field: "subject", Value: string(form.SubjectSupport)}, action.Form.Entries[0])
}

func TestClassify_ExtractionSubmitFlag(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: `{"name": null, "email": null, "subject": null, "message": null, "submit": true}`},
	}, "that's everything, send it")

	require.Equal(t, KindFormMutation, action.Kind)
	assert.Equal(t, FormSubmit, action.Form.Op)
}

func TestClassify_MalformedExtractionContinuesCascade(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: `here is the data you asked for: {"name": "Jo`},
		{resp: `{"action": "clear", "field": "", "value": ""}`},
	}, "clear all filters")

	require.Equal(t, KindListMutation, action.Kind)
	require.NotNil(t, action.List)
	assert.Equal(t, ListClear, action.List.Op)
}

func TestClassify_ListMutation(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: "```json\n{\"action\": \"filter\", \"field\": \"category\", \"value\": \"Pro\"}\n```"},
	}, "show only pro products")

	require.Equal(t, KindListMutation, action.Kind)
	assert.Equal(t, ListMutation{Op: ListFilter, Field: "category", Value: "Pro"}, *action.List)
}

func TestClassify_ListMutationRejectsUnknownVerb(t *testing.T) {
	// An out-of-vocabulary action is a non-result; navigation resolves it.
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: `{"action": "shuffle", "field": "", "value": ""}`},
		{resp: "products"},
	}, "shuffle the products")

	require.Equal(t, KindNavigation, action.Kind)
	assert.Equal(t, "products", action.Destination.ID)
}

func TestClassify_NavigationVerboseAnswer(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: `The user wants the "contact" page.`},
	}, "I want to talk to a human")

	require.Equal(t, KindNavigation, action.Kind)
	assert.Equal(t, "contact", action.Destination.ID)
}

func TestClassify_NavigationNoneIsTerminal(t *testing.T) {
	// The oracle's NONE on the navigation stage is a definitive no-match:
	// the keyword fallback must not run even though the utterance contains
	// a catalog keyword.
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: "NONE"},
		{resp: "NONE"},
	}, "tell me about products")

	assert.Equal(t, KindNone, action.Kind)
	assert.Nil(t, action.Destination)
}

func TestClassify_OracleDownFallsBackToKeywords(t *testing.T) {
	c := NewClassifier(failingOracle{})
	action := c.Classify(context.Background(), Turn{
		Utterance:    "show me your products",
		Destinations: nav.DefaultCatalog().Destinations(),
	})

	require.Equal(t, KindNavigation, action.Kind)
	assert.Equal(t, "products", action.Destination.ID)
}

func TestClassify_NilOracleFallbackOnly(t *testing.T) {
	c := NewClassifier(nil)

	t.Run("keyword hit", func(t *testing.T) {
		action := c.Classify(context.Background(), Turn{
			Utterance:    "take me home",
			Destinations: nav.DefaultCatalog().Destinations(),
		})
		require.Equal(t, KindNavigation, action.Kind)
		assert.Equal(t, "home", action.Destination.ID)
	})

	t.Run("no match", func(t *testing.T) {
		action := c.Classify(context.Background(), Turn{
			Utterance:    "qwertyuiop",
			Destinations: nav.DefaultCatalog().Destinations(),
		})
		assert.Equal(t, KindNone, action.Kind)
		assert.Equal(t, "qwertyuiop", action.Utterance)
	})
}

func TestClassify_ExtractionNoJSONContinues(t *testing.T) {
	action := classify(t, []scriptedReply{
		{resp: "NONE"},
		{resp: "I could not find any form fields here."},
		{resp: "NONE"},
		{resp: "settings"},
	}, "open my preferences")

	require.Equal(t, KindNavigation, action.Kind)
	assert.Equal(t, "settings", action.Destination.ID)
}
