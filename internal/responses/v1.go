package responses

import (
	"encoding/json"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
	"google.golang.org/grpc/codes"
)

const fcmErrorType = "type.googleapis.com/google.firebase.fcm.v1.FcmError"

// V1TokenParser parses responses of the v1 messages:send endpoint.
type V1TokenParser struct{}

type v1ErrorBody struct {
	Error *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Status  json.RawMessage `json:"status"`
		Details []struct {
			Type      string `json:"@type"`
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

func (p *V1TokenParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return v1Failure(resp)
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Name == "" {
		return malformed(resp, "missing message name")
	}
	return &fcm.Result{
		Outcome:    fcm.OutcomeSuccess,
		StatusCode: resp.StatusCode,
		MessageID:  body.Name,
	}
}

func v1Failure(resp *fcm.RawResponse) *fcm.Result {
	var body v1ErrorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Error == nil {
		return statusFailure(resp)
	}

	var status string
	_ = json.Unmarshal(body.Error.Status, &status)

	code := status
	for _, d := range body.Error.Details {
		if d.Type == fcmErrorType && d.ErrorCode != "" {
			code = d.ErrorCode
			break
		}
	}

	res := &fcm.Result{
		Outcome:    fcm.OutcomeFailure,
		StatusCode: resp.StatusCode,
		Error: &fcm.ProviderError{
			Kind:    v1Kind(body.Error.Status, resp.StatusCode),
			Code:    code,
			Status:  status,
			Message: body.Error.Message,
		},
		RetryAfter: retryAfter(resp.Header),
	}
	return res
}

// v1Kind classifies the canonical status; unknown statuses fall back to the HTTP code.
func v1Kind(rawStatus json.RawMessage, httpStatus int) fcm.ErrorKind {
	var c codes.Code
	if len(rawStatus) == 0 || c.UnmarshalJSON(rawStatus) != nil {
		return kindForStatus(httpStatus)
	}
	switch c {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fcm.KindAuthentication
	case codes.Unavailable, codes.ResourceExhausted, codes.Internal:
		return fcm.KindUnavailable
	}
	return fcm.KindProvider
}
