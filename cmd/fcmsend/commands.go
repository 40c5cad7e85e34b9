package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"firebase.google.com/go/v4/messaging"
	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sideshow/apns2/payload"
	"github.com/spf13/cobra"

	"github.com/tinywideclouds/go-fcm-client/fcmclient"
	"github.com/tinywideclouds/go-fcm-client/pkg/fcm"
	"github.com/tinywideclouds/go-fcm-client/pkg/platform"
)

type clientFactory func(ctx context.Context) (*fcmclient.Client, error)

func rootCommand(newClient clientFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "fcmsend",
		Short:         "Send Firebase Cloud Messaging pushes and manage subscriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		sendCommand(newClient),
		subscriptionCommand(newClient, true),
		subscriptionCommand(newClient, false),
		groupCommand(newClient),
	)
	return root
}

// intentFor picks the request intent once the client's api version is known.
type intentFor func(gen fcm.APIGeneration) fcm.Intent

func fixedIntent(intent fcm.Intent) intentFor {
	return func(fcm.APIGeneration) fcm.Intent { return intent }
}

// run creates one request, lets configure fill it and prints the result.
func run(cmd *cobra.Command, newClient clientFactory, intent intentFor, configure func(*fcmclient.Request) error) error {
	ctx := cmd.Context()
	client, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	req, err := client.CreateRequest(ctx, intent(client.APIVersion()))
	if err != nil {
		return err
	}
	if err := configure(req); err != nil {
		return err
	}
	result, err := req.Send(ctx)
	if err != nil {
		return err
	}
	if err := printResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Outcome == fcm.OutcomeFailure {
		if result.Error == nil {
			return fmt.Errorf("request failed with status %d", result.StatusCode)
		}
		return fmt.Errorf("request failed: %s %s", result.Error.Kind, result.Error.Code)
	}
	return nil
}

func printResult(w io.Writer, result *fcm.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func sendCommand(newClient clientFactory) *cobra.Command {
	var (
		token, topic, condition, group string
		title, body                    string
		data                           []string
		validateOnly                   bool
		androidPriority                string
		apnsBadge                      int
		webpushUrgency                 string
		webpushTTL                     int
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to a token, topic, condition or device group",
		Long: `Send one message.

Examples:
  fcmsend send --token=abc --title=Hi --body=there
  fcmsend send --topic=news --data=k=v --validate-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, value, toGroup, err := sendTarget(token, topic, condition, group)
			if err != nil {
				return err
			}
			payloadData, err := parseData(data)
			if err != nil {
				return err
			}

			intent := func(gen fcm.APIGeneration) fcm.Intent { return sendIntent(gen, kind, toGroup) }
			return run(cmd, newClient, intent, func(req *fcmclient.Request) error {
				req.SetTarget(kind, value)
				if len(payloadData) > 0 {
					req.SetData(payloadData)
				}
				if title != "" || body != "" {
					req.SetNotification(title, body)
				}
				if androidPriority != "" {
					block, err := platform.AndroidConfig(&messaging.AndroidConfig{Priority: androidPriority})
					if err != nil {
						return err
					}
					req.SetAndroidConfig(block)
				}
				if cmd.Flags().Changed("apns-badge") {
					block, err := platform.APNSConfig(payload.NewPayload().Badge(apnsBadge), platform.APNSOptions{})
					if err != nil {
						return err
					}
					req.SetApnsConfig(block)
				}
				if webpushUrgency != "" || webpushTTL > 0 {
					headers, err := platform.WebpushHeaders(webpushTTL, webpush.Urgency(webpushUrgency))
					if err != nil {
						return err
					}
					block, err := platform.WebpushConfig(&messaging.WebpushConfig{Headers: headers})
					if err != nil {
						return err
					}
					req.SetWebPushConfig(block)
				}
				return req.ValidateOnly(validateOnly).Err()
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&token, "token", "", "Registration token")
	f.StringVar(&topic, "topic", "", "Topic name")
	f.StringVar(&condition, "condition", "", "Topic condition, e.g. \"'a' in topics && 'b' in topics\"")
	f.StringVar(&group, "group", "", "Device group notification key (legacy only)")
	f.StringVar(&title, "title", "", "Notification title")
	f.StringVar(&body, "body", "", "Notification body")
	f.StringArrayVar(&data, "data", nil, "Data entry as key=value (repeatable)")
	f.BoolVar(&validateOnly, "validate-only", false, "Validate without delivering")
	f.StringVar(&androidPriority, "android-priority", "", "Android priority (normal|high)")
	f.IntVar(&apnsBadge, "apns-badge", 0, "APNs badge count")
	f.StringVar(&webpushUrgency, "webpush-urgency", "", "Web Push urgency (very-low|low|normal|high)")
	f.IntVar(&webpushTTL, "webpush-ttl", 0, "Web Push TTL in seconds")
	cmd.MarkFlagsMutuallyExclusive("token", "topic", "condition", "group")
	return cmd
}

// sendTarget maps the addressing flag to a target. A device group is
// addressed by its notification key with the token kind.
func sendTarget(token, topic, condition, group string) (fcm.TargetKind, string, bool, error) {
	switch {
	case token != "":
		return fcm.TargetToken, token, false, nil
	case topic != "":
		return fcm.TargetTopic, topic, false, nil
	case condition != "":
		return fcm.TargetCondition, condition, false, nil
	case group != "":
		return fcm.TargetToken, group, true, nil
	}
	return "", "", false, fmt.Errorf("one of --token, --topic, --condition or --group is required")
}

// sendIntent picks the send intent. v1 has a single send operation that
// takes every target kind; legacy splits token, topic and group sends.
func sendIntent(gen fcm.APIGeneration, kind fcm.TargetKind, toGroup bool) fcm.Intent {
	switch {
	case toGroup:
		return fcm.SendToGroup
	case gen == fcm.V1 || kind == fcm.TargetToken:
		return fcm.SendToToken
	}
	return fcm.SendToTopic
}

func parseData(entries []string) (map[string]any, error) {
	data := make(map[string]any, len(entries))
	for _, kv := range entries {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid data format: %s (expected key=value)", kv)
		}
		data[key] = strings.TrimSpace(value)
	}
	return data, nil
}

func subscriptionCommand(newClient clientFactory, subscribe bool) *cobra.Command {
	var (
		topic  string
		tokens []string
	)

	use, short := "subscribe", "Subscribe tokens to a topic"
	if !subscribe {
		use, short = "unsubscribe", "Unsubscribe tokens from a topic"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, newClient, fixedIntent(fcm.ManageTopicSubscription), func(req *fcmclient.Request) error {
				req.SetTopic(topic).SetTokens(tokens...)
				if subscribe {
					req.Subscribe()
				} else {
					req.Unsubscribe()
				}
				return req.Err()
			})
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Topic name")
	cmd.Flags().StringSliceVar(&tokens, "tokens", nil, "Registration tokens (comma separated)")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("tokens")
	return cmd
}

func groupCommand(newClient clientFactory) *cobra.Command {
	var (
		operation string
		name      string
		key       string
		tokens    []string
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create a device group or add/remove its members (legacy only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, newClient, fixedIntent(fcm.ManageGroupMembership), func(req *fcmclient.Request) error {
				req.SetGroupOperation(fcm.GroupOperation(operation)).
					SetNotificationKeyName(name).
					SetTokens(tokens...)
				if key != "" {
					req.SetNotificationKey(key)
				}
				return req.Err()
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&operation, "operation", string(fcm.GroupCreate), "create|add|remove")
	f.StringVar(&name, "name", "", "Notification key name")
	f.StringVar(&key, "key", "", "Notification key (add/remove)")
	f.StringSliceVar(&tokens, "tokens", nil, "Member registration tokens (comma separated)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("tokens")
	return cmd
}
