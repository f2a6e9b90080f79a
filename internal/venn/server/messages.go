package server

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
)

// EvaluateRequest is the payload of Evaluate
type EvaluateRequest struct {
	ExerciseID string `json:"exercise_id,omitempty"`
	Expression string `json:"expression"`
}

// ExercisesResponse is the payload returned by ListExercises
type ExercisesResponse struct {
	Default   string                 `json:"default"`
	Exercises []service.ExerciseInfo `json:"exercises"`
}

// HistoryRequest is the payload of GetHistory. Since is RFC 3339.
type HistoryRequest struct {
	ExerciseID string `json:"exercise_id,omitempty"`
	Since      string `json:"since,omitempty"`
	OnlyErrors bool   `json:"only_errors,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Filter converts the request into a store filter
func (r HistoryRequest) Filter() (store.Filter, error) {
	filter := store.Filter{
		ExerciseID: r.ExerciseID,
		OnlyErrors: r.OnlyErrors,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
	if r.Since != "" {
		since, err := time.Parse(time.RFC3339, r.Since)
		if err != nil {
			return filter, fmt.Errorf("invalid since %q: %w", r.Since, err)
		}
		filter.Since = since
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return filter, fmt.Errorf("limit and offset must not be negative")
	}
	return filter, nil
}

// HistoryResponse is the payload returned by GetHistory
type HistoryResponse struct {
	Entries []*store.Evaluation `json:"entries"`
	Count   int                 `json:"count"`
}

// toStruct converts a JSON-tagged value into a Struct message
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// fromStruct decodes a Struct message into a JSON-tagged value
func fromStruct(s *structpb.Struct, v interface{}) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
