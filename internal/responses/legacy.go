package responses

import (
	"encoding/json"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// LegacyTokenParser parses legacy send responses addressed to a single token.
type LegacyTokenParser struct{}

type legacyMulticastBody struct {
	MulticastID  int64 `json:"multicast_id"`
	Success      int   `json:"success"`
	Failure      int   `json:"failure"`
	CanonicalIDs int   `json:"canonical_ids"`
	Results      []struct {
		MessageID      string `json:"message_id"`
		RegistrationID string `json:"registration_id"`
		Error          string `json:"error"`
	} `json:"results"`
}

func (p *LegacyTokenParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return legacyFailure(resp)
	}

	var body legacyMulticastBody
	if err := json.Unmarshal(resp.Body, &body); err != nil || len(body.Results) == 0 {
		return malformed(resp, "missing results")
	}

	res := &fcm.Result{
		StatusCode:   resp.StatusCode,
		SuccessCount: body.Success,
		FailureCount: body.Failure,
		RetryAfter:   retryAfter(resp.Header),
	}
	for _, r := range body.Results {
		res.Items = append(res.Items, fcm.ItemResult{
			MessageID:      r.MessageID,
			CanonicalToken: r.RegistrationID,
			Error:          r.Error,
		})
	}

	first := body.Results[0]
	if first.Error != "" {
		res.Outcome = fcm.OutcomeFailure
		res.Error = &fcm.ProviderError{Kind: legacyResultKind(first.Error), Code: first.Error, Message: first.Error}
		return res
	}
	res.Outcome = fcm.OutcomeSuccess
	res.MessageID = first.MessageID
	return res
}

// LegacyTopicParser parses legacy send responses addressed to a topic or condition.
type LegacyTopicParser struct{}

func (p *LegacyTopicParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return legacyFailure(resp)
	}

	var body struct {
		MessageID json.Number `json:"message_id"`
		Error     string      `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return malformed(resp, "undecodable topic response")
	}
	if body.Error != "" {
		return &fcm.Result{
			Outcome:    fcm.OutcomeFailure,
			StatusCode: resp.StatusCode,
			Error:      &fcm.ProviderError{Kind: legacyResultKind(body.Error), Code: body.Error, Message: body.Error},
			RetryAfter: retryAfter(resp.Header),
		}
	}
	if body.MessageID == "" {
		return malformed(resp, "missing message_id")
	}
	return &fcm.Result{
		Outcome:    fcm.OutcomeSuccess,
		StatusCode: resp.StatusCode,
		MessageID:  body.MessageID.String(),
	}
}

// LegacyGroupParser parses legacy send responses addressed to a device group.
type LegacyGroupParser struct{}

func (p *LegacyGroupParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return legacyFailure(resp)
	}

	var body struct {
		Success               int      `json:"success"`
		Failure               int      `json:"failure"`
		FailedRegistrationIDs []string `json:"failed_registration_ids"`
		Error                 string   `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return malformed(resp, "undecodable group response")
	}
	if body.Error != "" {
		return legacyFailure(resp)
	}

	res := &fcm.Result{
		StatusCode:   resp.StatusCode,
		SuccessCount: body.Success,
		FailureCount: body.Failure,
	}
	for _, token := range body.FailedRegistrationIDs {
		res.Items = append(res.Items, fcm.ItemResult{Token: token, Error: "delivery failed"})
	}

	switch {
	case body.Failure == 0:
		res.Outcome = fcm.OutcomeSuccess
	case body.Success > 0:
		res.Outcome = fcm.OutcomePartialFailure
	default:
		res.Outcome = fcm.OutcomeFailure
		res.Error = &fcm.ProviderError{Kind: fcm.KindProvider, Code: "AllGroupMembersFailed", Message: "delivery failed for every group member"}
	}
	return res
}

// GroupManagementParser parses responses of the legacy notification key endpoint.
type GroupManagementParser struct{}

func (p *GroupManagementParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return legacyFailure(resp)
	}

	var body struct {
		NotificationKey string `json:"notification_key"`
		Error           string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return malformed(resp, "undecodable group management response")
	}
	if body.Error != "" {
		return legacyFailure(resp)
	}
	if body.NotificationKey == "" {
		return malformed(resp, "missing notification_key")
	}
	return &fcm.Result{
		Outcome:         fcm.OutcomeSuccess,
		StatusCode:      resp.StatusCode,
		NotificationKey: body.NotificationKey,
	}
}

// legacyResultKind maps per-message legacy error codes onto a kind.
func legacyResultKind(code string) fcm.ErrorKind {
	switch code {
	case "Unavailable", "InternalServerError", "DeviceMessageRateExceeded", "TopicsMessageRateExceeded":
		return fcm.KindUnavailable
	case "MismatchSenderId":
		return fcm.KindAuthentication
	}
	return fcm.KindProvider
}
