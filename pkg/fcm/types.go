// Package fcm contains the public domain model and collaborator contracts for
// building and sending Firebase Cloud Messaging requests.
package fcm

import "fmt"

// APIGeneration selects one of the two incompatible FCM HTTP protocols.
type APIGeneration string

const (
	Legacy APIGeneration = "legacy_api"
	V1     APIGeneration = "api_v1"
)

// APIGenerations lists every supported generation.
var APIGenerations = []APIGeneration{Legacy, V1}

// ParseAPIGeneration maps a configured api version string onto an APIGeneration.
func ParseAPIGeneration(s string) (APIGeneration, error) {
	for _, g := range APIGenerations {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: api version %q must be one of %v", ErrConfiguration, s, APIGenerations)
}

// Intent is the caller's purpose for a single request.
type Intent string

const (
	SendToToken             Intent = "for_token_sending"
	SendToTopic             Intent = "for_topic_sending"
	SendToGroup             Intent = "for_group_sending"
	ManageTopicSubscription Intent = "for_topic_management"
	ManageGroupMembership   Intent = "for_group_management"
)

// Intents lists every known intent.
var Intents = []Intent{SendToToken, SendToTopic, SendToGroup, ManageTopicSubscription, ManageGroupMembership}

// ParseIntent maps a string onto an Intent.
func ParseIntent(s string) (Intent, error) {
	for _, i := range Intents {
		if string(i) == s {
			return i, nil
		}
	}
	return "", fmt.Errorf("%w: intent %q must be one of %v", ErrConfiguration, s, Intents)
}

// TargetKind is the variant of a message target.
type TargetKind string

const (
	TargetToken     TargetKind = "token"
	TargetTopic     TargetKind = "topic"
	TargetCondition TargetKind = "condition"
)

// Valid reports whether k is one of the known target kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetToken, TargetTopic, TargetCondition:
		return true
	}
	return false
}

// GroupOperation is a legacy device group management operation.
type GroupOperation string

const (
	GroupCreate GroupOperation = "create"
	GroupAdd    GroupOperation = "add"
	GroupRemove GroupOperation = "remove"
)

// Valid reports whether op is one of the known operations.
func (op GroupOperation) Valid() bool {
	switch op {
	case GroupCreate, GroupAdd, GroupRemove:
		return true
	}
	return false
}

// TopicsPath prefixes a topic name wherever the wire format expects a topic address.
const TopicsPath = "/topics/"
