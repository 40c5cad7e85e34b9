package platform

import (
	"fmt"
	"strconv"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
)

// WebpushHeaders returns the TTL and Urgency headers for a webpush block.
// A zero ttl leaves TTL to the provider default.
func WebpushHeaders(ttl int, urgency webpush.Urgency) (map[string]string, error) {
	if ttl < 0 {
		return nil, fmt.Errorf("%w: negative webpush ttl", fcm.ErrInvalidData)
	}

	headers := make(map[string]string, 2)
	if ttl > 0 {
		headers["TTL"] = strconv.Itoa(ttl)
	}

	switch urgency {
	case "":
	case webpush.UrgencyVeryLow, webpush.UrgencyLow, webpush.UrgencyNormal, webpush.UrgencyHigh:
		headers["Urgency"] = string(urgency)
	default:
		return nil, fmt.Errorf("%w: unknown webpush urgency %q", fcm.ErrInvalidData, urgency)
	}
	return headers, nil
}
