package platform

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// APNSOptions are the APNs headers FCM forwards to Apple.
type APNSOptions struct {
	Priority   int
	PushType   apns2.EPushType
	CollapseID string
	Headers    map[string]string
}

// APNSConfig builds the apns block from a payload built with apns2's payload
// builder. Priority defaults to apns2.PriorityHigh and push type to alert.
func APNSConfig(p *payload.Payload, opts APNSOptions) (map[string]any, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: apns payload is nil", fcm.ErrInvalidData)
	}

	body, err := toBlock("apns payload", p)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(opts.Headers)+3)
	maps.Copy(headers, opts.Headers)

	priority := opts.Priority
	if priority == 0 {
		priority = apns2.PriorityHigh
	}
	if priority != apns2.PriorityHigh && priority != apns2.PriorityLow {
		return nil, fmt.Errorf("%w: apns priority %d", fcm.ErrInvalidData, priority)
	}
	headers["apns-priority"] = strconv.Itoa(priority)

	pushType := opts.PushType
	if pushType == "" {
		pushType = apns2.PushTypeAlert
	}
	headers["apns-push-type"] = string(pushType)

	if opts.CollapseID != "" {
		headers["apns-collapse-id"] = opts.CollapseID
	}

	return map[string]any{
		"headers": headers,
		"payload": body,
	}, nil
}
