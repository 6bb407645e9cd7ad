package fingerprintpb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// DeviceStatus is the wire view of the sensor session.
type DeviceStatus struct {
	Open   bool
	Handle string
}

func DeviceStatusToStruct(handle model.DeviceHandle, open bool) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"open": structpb.NewBoolValue(open),
	}
	if open {
		fields["handle"] = structpb.NewStringValue(handle.String())
	}
	return &structpb.Struct{Fields: fields}
}

func DeviceStatusFromStruct(s *structpb.Struct) DeviceStatus {
	return DeviceStatus{
		Open:   boolField(s, "open"),
		Handle: stringField(s, "handle"),
	}
}

func VerifyResultToStruct(r model.VerifyResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"matched":  structpb.NewBoolValue(r.Matched),
		"score":    structpb.NewNumberValue(float64(r.Score)),
		"attempts": structpb.NewNumberValue(float64(r.Attempts)),
	}}
}

func VerifyResultFromStruct(s *structpb.Struct) model.VerifyResult {
	return model.VerifyResult{
		Matched:  boolField(s, "matched"),
		Score:    intField(s, "score"),
		Attempts: intField(s, "attempts"),
	}
}

// EnrollResultToStruct omits the template bytes.
func EnrollResultToStruct(r model.EnrollResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"enrollment_id": structpb.NewStringValue(r.EnrollmentID.String()),
		"identity":      structpb.NewStringValue(r.Identity),
		"created_at":    structpb.NewStringValue(r.CreatedAt.UTC().Format(time.RFC3339Nano)),
		"attempts":      structpb.NewNumberValue(float64(r.Attempts)),
		"template_size": structpb.NewNumberValue(float64(len(r.Template))),
	}}
}

func EnrollResultFromStruct(s *structpb.Struct) (model.EnrollResult, error) {
	id, err := uuid.Parse(stringField(s, "enrollment_id"))
	if err != nil {
		return model.EnrollResult{}, fmt.Errorf("invalid enrollment id: %w", err)
	}
	created, err := timeField(s, "created_at")
	if err != nil {
		return model.EnrollResult{}, err
	}
	return model.EnrollResult{
		EnrollmentID: id,
		Identity:     stringField(s, "identity"),
		CreatedAt:    created,
		Attempts:     intField(s, "attempts"),
	}, nil
}

func DuplicateCheckToStruct(c model.DuplicateCheck) *structpb.Struct {
	fields := map[string]*structpb.Value{
		"is_duplicate": structpb.NewBoolValue(c.IsDuplicate),
		"score":        structpb.NewNumberValue(float64(c.Score)),
		"compared":     structpb.NewNumberValue(float64(c.Compared)),
	}
	if identity, ok := c.MatchedIdentity.Get(); ok {
		fields["matched_identity"] = structpb.NewStringValue(identity)
	}
	return &structpb.Struct{Fields: fields}
}

func DuplicateCheckFromStruct(s *structpb.Struct) model.DuplicateCheck {
	matched := mo.None[string]()
	if _, ok := s.GetFields()["matched_identity"]; ok {
		matched = mo.Some(stringField(s, "matched_identity"))
	}
	return model.DuplicateCheck{
		IsDuplicate:     boolField(s, "is_duplicate"),
		MatchedIdentity: matched,
		Score:           intField(s, "score"),
		Compared:        intField(s, "compared"),
	}
}

func EnrollmentsToList(enrollments []model.Enrollment) *structpb.ListValue {
	return &structpb.ListValue{Values: lo.Map(enrollments, func(e model.Enrollment, _ int) *structpb.Value {
		return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"id":         structpb.NewStringValue(e.ID.String()),
			"identity":   structpb.NewStringValue(e.Identity),
			"created_at": structpb.NewStringValue(e.CreatedAt.UTC().Format(time.RFC3339Nano)),
		}})
	})}
}

func EnrollmentsFromList(list *structpb.ListValue) ([]model.Enrollment, error) {
	out := make([]model.Enrollment, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		id, err := uuid.Parse(stringField(s, "id"))
		if err != nil {
			return nil, fmt.Errorf("enrollment %d: invalid id: %w", i, err)
		}
		created, err := timeField(s, "created_at")
		if err != nil {
			return nil, fmt.Errorf("enrollment %d: %w", i, err)
		}
		out = append(out, model.Enrollment{ID: id, Identity: stringField(s, "identity"), CreatedAt: created})
	}
	return out, nil
}

func EventToStruct(e model.Event) *structpb.Struct {
	ctx := make(map[string]*structpb.Value, len(e.Context))
	for k, v := range e.Context {
		ctx[k] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":      structpb.NewStringValue(e.ID.String()),
		"kind":    structpb.NewStringValue(string(e.Kind)),
		"message": structpb.NewStringValue(e.Message),
		"time":    structpb.NewStringValue(e.Time.UTC().Format(time.RFC3339Nano)),
		"context": structpb.NewStructValue(&structpb.Struct{Fields: ctx}),
	}}
}

func EventFromStruct(s *structpb.Struct) (model.Event, error) {
	id, err := uuid.Parse(stringField(s, "id"))
	if err != nil {
		return model.Event{}, fmt.Errorf("invalid event id: %w", err)
	}
	at, err := timeField(s, "time")
	if err != nil {
		return model.Event{}, err
	}

	ctx := make(map[string]string)
	for k, v := range s.GetFields()["context"].GetStructValue().GetFields() {
		ctx[k] = v.GetStringValue()
	}

	return model.Event{
		ID:      id,
		Kind:    model.EventKind(stringField(s, "kind")),
		Message: stringField(s, "message"),
		Context: ctx,
		Time:    at,
	}, nil
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func boolField(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func intField(s *structpb.Struct, key string) int {
	return int(s.GetFields()[key].GetNumberValue())
}

func timeField(s *structpb.Struct, key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, stringField(s, key))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}
