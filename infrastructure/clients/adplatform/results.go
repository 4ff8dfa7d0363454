package adplatform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"creative-assigner/domain/model"
)

type resultBody struct {
	Key     string `json:"key"`
	Success bool   `json:"success"`
	AdID    string `json:"ad_id"`
	ID      string `json:"id"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (r resultBody) toModel(key string) model.SubmissionResult {
	if key == "" {
		key = r.Key
	}
	out := model.SubmissionResult{Key: key, Success: r.Success, AdID: r.AdID, Error: r.Error}
	if out.AdID == "" {
		out.AdID = r.ID
	}
	if out.Error == "" && !r.Success {
		out.Error = r.Message
	}
	return out
}

// ParseResults accepts the shapes gateways answer with: an object keyed by result
// key, an array of results, or either of those under "results".
func ParseResults(body []byte) ([]model.SubmissionResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []model.SubmissionResult{}, nil
	}
	if body[0] == '{' {
		var wrapped struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &wrapped); err == nil && len(wrapped.Results) > 0 {
			body = bytes.TrimSpace(wrapped.Results)
		}
	}
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []model.SubmissionResult{}, nil
	}

	switch body[0] {
	case '[':
		var list []resultBody
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
		out := make([]model.SubmissionResult, 0, len(list))
		for _, r := range list {
			out = append(out, r.toModel(""))
		}
		return out, nil
	case '{':
		var keyed map[string]resultBody
		if err := json.Unmarshal(body, &keyed); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]model.SubmissionResult, 0, len(keys))
		for _, k := range keys {
			out = append(out, keyed[k].toModel(k))
		}
		return out, nil
	}
	return nil, fmt.Errorf("decode results: unexpected body %q", string(body[:1]))
}
