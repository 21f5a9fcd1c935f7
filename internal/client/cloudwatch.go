package client

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/pkg/errors"

	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
)

// LogsAPI is the subset of the CloudWatch Logs API we use.
type LogsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// CloudWatchClient pulls log events out of CloudWatch Logs groups.
type CloudWatchClient struct {
	client LogsAPI
}

// AuthOptions selects how AWS credentials and region are resolved.
type AuthOptions struct {
	Region  string
	Profile string
}

// NewCloudWatchOptions builds config load options. The profile comes from the
// flag or AWS_PROFILE; without a profile, static keys from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY are used when both are set. Otherwise the SDK's default
// chain applies.
func NewCloudWatchOptions(o AuthOptions) []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, config.WithRegion(o.Region))
	}
	profile := o.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		return append(opts, config.WithSharedConfigProfile(profile))
	}
	key, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key != "" && secret != "" {
		provider := credentials.NewStaticCredentialsProvider(key, secret, os.Getenv("AWS_SESSION_TOKEN"))
		opts = append(opts, config.WithCredentialsProvider(provider))
	}
	return opts
}

// NewCloudWatchClient loads AWS configuration and returns a client.
func NewCloudWatchClient(ctx context.Context, optFns ...func(*config.LoadOptions) error) (*CloudWatchClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return &CloudWatchClient{client: cloudwatchlogs.NewFromConfig(cfg)}, nil
}

// NewWithAPI wraps an existing LogsAPI implementation.
func NewWithAPI(api LogsAPI) *CloudWatchClient {
	return &CloudWatchClient{client: api}
}

// SearchGroup returns every event of one group matching filterPattern in
// [startMs, endMs], following pagination until the token stops changing.
func (c *CloudWatchClient) SearchGroup(ctx context.Context, group, filterPattern string, startMs, endMs int64) ([]model.LogEvent, error) {
	var events []model.LogEvent
	var next *string
	for {
		out, err := c.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName:  aws.String(group),
			FilterPattern: aws.String(filterPattern),
			StartTime:     aws.Int64(startMs),
			EndTime:       aws.Int64(endMs),
			NextToken:     next,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "filter log events in %s", group)
		}
		for _, e := range out.Events {
			events = append(events, model.LogEvent{
				Timestamp: time.UnixMilli(aws.ToInt64(e.Timestamp)),
				LogGroup:  group,
				LogStream: aws.ToString(e.LogStreamName),
				Message:   aws.ToString(e.Message),
			})
		}
		if out.NextToken == nil || (next != nil && aws.ToString(out.NextToken) == aws.ToString(next)) {
			break
		}
		next = out.NextToken
	}
	return events, nil
}
