package helper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type BedrockParameter struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// BedrockEvent is the payload an agent action group sends to the function.
type BedrockEvent struct {
	ActionGroup string             `json:"actionGroup"`
	Function    string             `json:"function"`
	Parameters  []BedrockParameter `json:"parameters"`
}

type BedrockFunctionResponse struct {
	ResponseBody any `json:"responseBody"`
}

type BedrockResponseContainer struct {
	ActionGroup      string                  `json:"actionGroup"`
	Function         string                  `json:"function"`
	FunctionResponse BedrockFunctionResponse `json:"functionResponse"`
}

type BedrockOutput struct {
	MessageVersion string                   `json:"messageVersion"`
	Response       BedrockResponseContainer `json:"response"`
}

func (e *BedrockEvent) GetParameter(name string) string {
	for _, p := range e.Parameters {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	return ""
}

// DigestEvent maps agent parameters onto a digest request. List parameters
// are comma separated.
func (e *BedrockEvent) DigestEvent() (DigestEvent, error) {
	event := DigestEvent{
		OrganizationID: e.GetParameter("organizationId"),
		AccountID:      e.GetParameter("accountId"),
		Labels:         splitList(e.GetParameter("labels")),
		Type:           e.GetParameter("type"),
		Frequency:      e.GetParameter("frequency"),
		Recipients:     splitList(e.GetParameter("recipients")),
	}
	if v := e.GetParameter("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return DigestEvent{}, fmt.Errorf("invalid days parameter %q", v)
		}
		event.Days = days
	}
	return event, nil
}

func NewBedrockResponse(actionGroup, function string, results any) BedrockOutput {
	resBody, _ := json.Marshal(results)
	return BedrockOutput{
		MessageVersion: "1.0",
		Response: BedrockResponseContainer{
			ActionGroup: actionGroup,
			Function:    function,
			FunctionResponse: BedrockFunctionResponse{
				ResponseBody: map[string]any{
					"TEXT": map[string]string{
						"body": string(resBody),
					},
				},
			},
		},
	}
}

// ParseEvent accepts a plain digest event, a scheduled EventBridge event
// carrying one in its detail, or an agent invocation.
func ParseEvent(raw json.RawMessage) (DigestEvent, *BedrockEvent, error) {
	var bedrockEvent BedrockEvent
	_ = json.Unmarshal(raw, &bedrockEvent)
	if bedrockEvent.ActionGroup != "" {
		event, err := bedrockEvent.DigestEvent()
		return event, &bedrockEvent, err
	}

	var scheduled events.CloudWatchEvent
	_ = json.Unmarshal(raw, &scheduled)
	if scheduled.DetailType != "" {
		var event DigestEvent
		if err := json.Unmarshal(scheduled.Detail, &event); err != nil {
			return DigestEvent{}, nil, fmt.Errorf("failed to unmarshal %s detail: %w", scheduled.DetailType, err)
		}
		return event, nil, nil
	}

	var event DigestEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return DigestEvent{}, nil, fmt.Errorf("failed to unmarshal digest event: %w", err)
	}
	return event, nil, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
