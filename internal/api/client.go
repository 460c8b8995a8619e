// Package api wraps the Anthropic SDK for contentpipe's content agents:
// a thin client carrying the configured model and a usage tracker, plus a
// Runner for the plain text-completion calls the agents make.
package api

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// bedrockPrefix marks a model id already in Bedrock cross-region
// inference-profile form.
const bedrockPrefix = "us.anthropic."

// Client bundles the SDK client, the model every call uses, and the
// token tracker the run summary reports from.
type Client struct {
	inner   anthropic.Client
	model   anthropic.Model
	tracker *TokenTracker
}

// ClientConfig selects the model and the transport for a Client.
type ClientConfig struct {
	// Model defaults to Claude Sonnet 4 when empty.
	Model anthropic.Model
	// APIKey falls back to the ANTHROPIC_API_KEY env var when empty.
	APIKey string
	// UseAWSBedrock routes calls through AWS Bedrock; APIKey is ignored.
	UseAWSBedrock bool
	// AWSRegion overrides the region from the ambient AWS config.
	AWSRegion string
	// AWSProfile selects a shared-config profile. Optional.
	AWSProfile string
}

// NewClient builds a Client for either the direct API or Bedrock.
func NewClient(cfg ClientConfig) (*Client, error) {
	opts, err := transportOptions(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = bedrockModelID(model)
	}

	return &Client{
		inner:   anthropic.NewClient(opts...),
		model:   model,
		tracker: NewTokenTracker(),
	}, nil
}

// transportOptions resolves credentials for the chosen transport.
func transportOptions(cfg ClientConfig) ([]option.RequestOption, error) {
	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		return []option.RequestOption{
			bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...),
		}, nil
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}
	return []option.RequestOption{option.WithAPIKey(apiKey)}, nil
}

// bedrockModelID maps an Anthropic model id onto its Bedrock cross-region
// inference profile: us.anthropic.{model}-v1:0. Ids already in profile
// form pass through untouched.
func bedrockModelID(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(model), bedrockPrefix) {
		return model
	}
	return anthropic.Model(bedrockPrefix + string(model) + "-v1:0")
}

// sdk exposes the underlying SDK client to the Runner.
func (c *Client) sdk() *anthropic.Client {
	return &c.inner
}

// Model returns the model every call on this client uses.
func (c *Client) Model() anthropic.Model {
	return c.model
}

// Tracker returns the client's token usage tracker.
func (c *Client) Tracker() *TokenTracker {
	return c.tracker
}
