package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// FunctionCall is an action invocation requested by the model.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse answers a FunctionCall with the same ID.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Part is exactly one of Text, FunctionCall or FunctionResponse.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func CallPart(call FunctionCall) Part {
	return Part{FunctionCall: &call}
}

func ResponsePart(resp FunctionResponse) Part {
	return Part{FunctionResponse: &resp}
}

func (p Part) empty() bool {
	return p.Text == "" && p.FunctionCall == nil && p.FunctionResponse == nil
}

// UnmarshalJSON also accepts a bare string, the shape older histories used
// for text parts.
func (p *Part) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*p = Part{Text: text}
		return nil
	}

	type plain Part
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	set := 0
	if decoded.Text != "" {
		set++
	}
	if decoded.FunctionCall != nil {
		set++
	}
	if decoded.FunctionResponse != nil {
		set++
	}
	if set > 1 {
		return errors.New("part must hold exactly one of text, function_call, function_response")
	}
	*p = Part(decoded)
	return nil
}

// Turn is one role-tagged message of the conversation.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

func UserText(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

func ModelText(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{TextPart(text)}}
}

// Text joins the text parts.
func (t Turn) Text() string {
	var texts []string
	for _, p := range t.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// Calls returns the action invocations in order.
func (t Turn) Calls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range t.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, *p.FunctionCall)
		}
	}
	return calls
}

// WithoutCalls drops the invocation parts.
func (t Turn) WithoutCalls() Turn {
	out := Turn{Role: t.Role}
	for _, p := range t.Parts {
		if p.FunctionCall == nil {
			out.Parts = append(out.Parts, p)
		}
	}
	return out
}

// withCallIDs fills missing invocation IDs so responses can reference them.
func (t Turn) withCallIDs() Turn {
	out := Turn{Role: t.Role, Parts: make([]Part, 0, len(t.Parts))}
	for _, p := range t.Parts {
		if p.FunctionCall != nil && p.FunctionCall.ID == "" {
			call := *p.FunctionCall
			call.ID = uuid.NewString()
			p = CallPart(call)
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}

func (t Turn) validate() error {
	if t.Role != RoleUser && t.Role != RoleModel {
		return fmt.Errorf("unknown role %q", t.Role)
	}
	for _, p := range t.Parts {
		if p.empty() {
			return errors.New("empty part")
		}
	}
	return nil
}
