// Package agent provides the in-repo implementation of the opaque agent
// collaborator: a deterministic rule agent that maps utterances to tool
// decisions by keyword and number extraction, in the spirit of the
// mock codex streams used for testing upstream. Swapping in a model-
// backed agent only requires implementing core.Agent.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pkt.systems/todoagent/schema"
)

// RuleAgent decides and synthesizes without any model call.
type RuleAgent struct{}

// NewRuleAgent constructs the deterministic agent.
func NewRuleAgent() *RuleAgent {
	return &RuleAgent{}
}

var idPattern = regexp.MustCompile(`\b(\d+)\b`)

// Decide maps one utterance to a decision. History is accepted for
// interface parity but the rule agent is stateless.
func (a *RuleAgent) Decide(_ context.Context, utterance string, _ []schema.ChatTurn) (schema.Decision, error) {
	text, err := schema.NormalizeMessage(utterance)
	if err != nil {
		return schema.Decision{}, err
	}
	lower := strings.ToLower(text)

	switch {
	case hasAny(lower, "find", "search", "related", "similar", "summarize", "which tasks", "what tasks"):
		return schema.Decision{Kind: schema.DecisionSearch, Query: text}, nil

	case hasAny(lower, "delete", "remove", "get rid of"):
		id, ok := extractID(text)
		if !ok {
			return schema.Decision{
				Kind:  schema.DecisionReply,
				Reply: "Which todo should I delete? Tell me its ID, e.g. \"delete todo 3\".",
			}, nil
		}
		return schema.Decision{Kind: schema.DecisionDelete, ID: id}, nil

	case hasAny(lower, "update", "rename", "change", "edit"):
		id, ok := extractID(text)
		if !ok {
			return schema.Decision{
				Kind:  schema.DecisionReply,
				Reply: "Which todo should I update? Tell me its ID and the new title.",
			}, nil
		}
		title := extractRenameTitle(text)
		if title == "" {
			return schema.Decision{
				Kind:  schema.DecisionReply,
				Reply: fmt.Sprintf("What should todo %d say instead?", id),
			}, nil
		}
		return schema.Decision{Kind: schema.DecisionUpdate, ID: id, Title: title}, nil

	case hasAny(lower, "add", "create", "remember to", "new task", "new todo"):
		title := extractCreateTitle(text)
		if title == "" {
			return schema.Decision{
				Kind:  schema.DecisionReply,
				Reply: "What should the new todo say?",
			}, nil
		}
		return schema.Decision{Kind: schema.DecisionCreate, Title: title}, nil

	case hasAny(lower, "list", "show", "what's on", "whats on", "my todos", "my tasks"):
		return schema.Decision{Kind: schema.DecisionList}, nil

	default:
		return schema.Decision{
			Kind:  schema.DecisionReply,
			Reply: "I manage your todo list. Ask me to add, list, update, delete, or find tasks.",
		}, nil
	}
}

// Synthesize produces the retrieval flow's final answer from ranked
// search results.
func (a *RuleAgent) Synthesize(_ context.Context, _ string, results []schema.ScoredTodo) (string, error) {
	if len(results) == 0 {
		return "I couldn't find any todos matching that.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d todo(s) that look relevant:\n", len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "- [%d] %s", r.Todo.ID, r.Todo.Title)
		if r.Todo.Description != "" {
			fmt.Fprintf(&b, " - %s", r.Todo.Description)
		}
		fmt.Fprintf(&b, " (relevance %.2f)\n", r.Score)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func hasAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func extractID(text string) (schema.TodoID, bool) {
	match := idPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, false
	}
	return schema.TodoID(id), true
}

var createPrefixes = []string{
	"add a task to ",
	"add a todo to ",
	"add a task ",
	"add a todo ",
	"add task ",
	"add todo ",
	"add ",
	"create a task to ",
	"create a todo to ",
	"create a task ",
	"create a todo ",
	"create ",
	"remember to ",
	"new task: ",
	"new task ",
	"new todo: ",
	"new todo ",
}

// extractCreateTitle strips the instruction verbiage and keeps the task
// text, preserving the user's original casing.
func extractCreateTitle(text string) string {
	lower := strings.ToLower(text)
	for _, prefix := range createPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(text[len(prefix):])
		}
	}
	return ""
}

// extractRenameTitle pulls the new title out of "... to say X" or
// "... to X" phrasings.
func extractRenameTitle(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range []string{" to say ", " to read ", " to "} {
		if i := strings.LastIndex(lower, marker); i >= 0 {
			candidate := strings.TrimSpace(text[i+len(marker):])
			if candidate != "" {
				return strings.Trim(candidate, `"'`)
			}
		}
	}
	return ""
}
