package httpapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/harshimysarla/LuxeAI/internal/lounge/types"
)

// Kiosks send google.protobuf.Struct messages:
//
//	{"identity_id": 12, "image": "<base64 jpeg>"}
//
// and get the verify response back as a Struct with the JSON field names.

func verifyRequestFromStruct(p *structpb.Struct, loungeID int64) (types.VerifyRequest, error) {
	req := types.VerifyRequest{VenueID: loungeID}
	fields := p.GetFields()

	id, err := structInt(fields["identity_id"])
	if err != nil {
		return req, fmt.Errorf("identity_id: %w", err)
	}
	req.IdentityID = id

	if v := fields["image"]; v != nil {
		img, err := base64.StdEncoding.DecodeString(v.GetStringValue())
		if err != nil {
			return req, fmt.Errorf("image: %w", err)
		}
		req.Image = img
	}
	return req, nil
}

// structInt accepts a whole number or a decimal string.
func structInt(v *structpb.Value) (int64, error) {
	switch k := v.GetKind().(type) {
	case nil:
		return 0, nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, errors.New("not an integer")
		}
		return int64(f), nil
	case *structpb.Value_StringValue:
		return strconv.ParseInt(k.StringValue, 10, 64)
	default:
		return 0, errors.New("unsupported type")
	}
}

func verifyResponseToStruct(r types.VerifyResponse) (*structpb.Struct, error) {
	m := map[string]any{
		"access_granted": r.AccessGranted,
		"status":         r.Status,
		"code":           r.Code,
		"reason":         r.Reason,
		"identity_id":    float64(r.IdentityID),
		"venue_id":       float64(r.VenueID),
		"server_time":    r.ServerTime,
	}
	if r.Distance != nil {
		m["distance"] = *r.Distance
	}
	if r.Confidence != nil {
		m["confidence"] = *r.Confidence
	}
	return structpb.NewStruct(m)
}

func errorStruct(code, msg string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"error":   structpb.NewStringValue(code),
		"message": structpb.NewStringValue(msg),
	}}
}
