package responses

import (
	"encoding/json"

	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// TopicSubscriptionParser parses IID batchAdd / batchRemove responses. The
// provider returns one result per token, in request order.
type TopicSubscriptionParser struct {
	tokens []string
}

func (p *TopicSubscriptionParser) SetTokens(tokens []string) {
	p.tokens = append([]string(nil), tokens...)
}

func (p *TopicSubscriptionParser) HandleResponse(resp *fcm.RawResponse) *fcm.Result {
	if resp == nil {
		return fcm.TransportFailure()
	}
	if !isSuccessStatus(resp.StatusCode) {
		return legacyFailure(resp)
	}

	var body struct {
		Results []struct {
			Error string `json:"error"`
		} `json:"results"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return malformed(resp, "undecodable subscription response")
	}
	if body.Error != "" {
		return legacyFailure(resp)
	}
	if len(p.tokens) > 0 && len(body.Results) != len(p.tokens) {
		return malformed(resp, "result count does not match token count")
	}

	res := &fcm.Result{StatusCode: resp.StatusCode}
	var firstErr string
	for i, r := range body.Results {
		item := fcm.ItemResult{Error: r.Error}
		if i < len(p.tokens) {
			item.Token = p.tokens[i]
		}
		res.Items = append(res.Items, item)
		if r.Error == "" {
			res.SuccessCount++
			res.Tokens = append(res.Tokens, item.Token)
			continue
		}
		res.FailureCount++
		if firstErr == "" {
			firstErr = r.Error
		}
	}

	switch {
	case res.FailureCount == 0:
		res.Outcome = fcm.OutcomeSuccess
	case res.SuccessCount > 0:
		res.Outcome = fcm.OutcomePartialFailure
	default:
		res.Outcome = fcm.OutcomeFailure
		res.Error = &fcm.ProviderError{Kind: fcm.KindProvider, Code: firstErr, Message: firstErr}
	}
	return res
}
